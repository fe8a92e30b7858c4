package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"issuetracker/internal/domain/issue"
	"issuetracker/internal/errs"
	"issuetracker/internal/ports"
)

const projectIndexName = "project_1"

type IssueRepository struct {
	coll *mongo.Collection
}

var _ ports.IssueStore = (*IssueRepository)(nil)

func NewIssueRepository(coll *mongo.Collection) *IssueRepository {
	return &IssueRepository{coll: coll}
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	return errs.Wrap(ctx.Err(), "check context")
}

// MigrateSchema creates the project index; the collection itself is created
// on first insert.
func (r *IssueRepository) MigrateSchema(ctx context.Context) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: string(issue.FieldProject), Value: 1}},
		Options: options.Index().SetName(projectIndexName),
	})
	if err != nil {
		return errs.Wrap(err, "create project index")
	}
	return nil
}

func (r *IssueRepository) Ping(ctx context.Context) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if err := r.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return errs.Wrap(err, "ping mongo")
	}
	return nil
}

func (r *IssueRepository) FindIssues(ctx context.Context, filter issue.Filter) ([]issue.Issue, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	query, ok := buildQuery(filter)
	if !ok {
		return []issue.Issue{}, nil
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errs.Wrap(err, "find issues")
	}

	var docs []issueDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errs.Wrap(err, "decode issues")
	}

	items := make([]issue.Issue, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toIssue())
	}
	return items, nil
}

func (r *IssueRepository) InsertIssue(ctx context.Context, in issue.Issue) (issue.Issue, error) {
	if err := checkContext(ctx); err != nil {
		return issue.Issue{}, err
	}

	doc := toDocument(in)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return issue.Issue{}, errs.Wrap(err, "insert issue")
	}
	return doc.toIssue(), nil
}

func (r *IssueRepository) UpdateIssue(ctx context.Context, selector ports.IssueSelector, patch issue.Patch) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	query, ok := buildSelector(selector)
	if !ok {
		return ports.ErrIssueNotFound
	}

	res, err := r.coll.UpdateOne(ctx, query, buildUpdate(patch))
	if err != nil {
		return errs.Wrapf(err, "update issue %q", selector.ID)
	}
	if res.MatchedCount == 0 {
		return ports.ErrIssueNotFound
	}
	return nil
}

func (r *IssueRepository) DeleteIssue(ctx context.Context, selector ports.IssueSelector) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	query, ok := buildSelector(selector)
	if !ok {
		return ports.ErrIssueNotFound
	}

	res, err := r.coll.DeleteOne(ctx, query)
	if err != nil {
		return errs.Wrapf(err, "delete issue %q", selector.ID)
	}
	if res.DeletedCount == 0 {
		return ports.ErrIssueNotFound
	}
	return nil
}

// buildQuery translates filter into a Mongo query. ok is false when no
// document can match, e.g. an _id that is not an ObjectID.
func buildQuery(filter issue.Filter) (bson.D, bool) {
	if filter.Unsatisfiable {
		return nil, false
	}

	query := bson.D{{Key: string(issue.FieldProject), Value: filter.Project}}
	for _, condition := range filter.Conditions {
		if condition.Field == issue.FieldID {
			oid, ok := objectID(condition.Value)
			if !ok {
				return nil, false
			}
			query = append(query, bson.E{Key: "_id", Value: oid})
			continue
		}
		query = append(query, bson.E{Key: string(condition.Field), Value: condition.Value})
	}
	return query, true
}

func buildSelector(selector ports.IssueSelector) (bson.D, bool) {
	oid, ok := objectID(selector.ID)
	if !ok {
		return nil, false
	}

	query := bson.D{{Key: "_id", Value: oid}}
	if selector.Project != "" {
		query = append(query, bson.E{Key: string(issue.FieldProject), Value: selector.Project})
	}
	return query, true
}

func buildUpdate(patch issue.Patch) bson.D {
	set := bson.D{}
	for _, assignment := range patch.Assignments() {
		set = append(set, bson.E{Key: string(assignment.Field), Value: assignment.Value})
	}
	return bson.D{{Key: "$set", Value: set}}
}

func objectID(value any) (primitive.ObjectID, bool) {
	hex, ok := value.(string)
	if !ok {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
