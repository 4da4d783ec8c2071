package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionCounters = "counters"

// sequences hands out int64 ids from one document per entity in the counters
// collection, e.g. {_id: "books", seq: 42}.
type sequences struct {
	col *mongo.Collection
}

func newSequences(db *mongo.Database) sequences {
	return sequences{col: db.Collection(collectionCounters)}
}

// reserve atomically advances the named sequence by n and returns the first
// id of the reserved block.
func (s sequences) reserve(ctx context.Context, name string, n int) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("reserve %s: invalid count %d", name, n)
	}

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(n)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("reserve %s: %w", name, err)
	}
	return doc.Seq - int64(n) + 1, nil
}

func (s sequences) next(ctx context.Context, name string) (int64, error) {
	return s.reserve(ctx, name, 1)
}
