package matches

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Match is a padel match users can be signed up for. Users hold references
// into this collection; FromIDs expands them on read.
type Match struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Court       string               `bson:"court" json:"court"`
	ScheduledAt time.Time            `bson:"scheduledAt" json:"scheduledAt"`
	Players     []primitive.ObjectID `bson:"players" json:"players"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// FromIDs resolves match references into full documents. Unknown references
// are skipped rather than failing the whole read.
func FromIDs(ids []primitive.ObjectID, db *mongo.Database) ([]Match, error) {
	if len(ids) == 0 {
		return []Match{}, nil
	}

	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
	cursor, err := db.Collection("padelMatches").Find(context.TODO(), filter)
	if err != nil {
		return nil, err
	}
	var results []bson.D
	if err = cursor.All(context.TODO(), &results); err != nil {
		return nil, errors.New("unable to search database for matches")
	}

	out := make([]Match, 0, len(results))
	for i := range results {
		doc, err := bson.Marshal(&results[i])
		if err != nil {
			return nil, err
		}
		var m Match
		err = bson.Unmarshal(doc, &m)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, nil
}
