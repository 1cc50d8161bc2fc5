package auth

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"padel-backend/internal"
	"padel-backend/internal/users"
)

type Session struct {
	ID        primitive.ObjectID `json:"item_id" bson:"item_id"`
	SessionID primitive.ObjectID `json:"session_id" bson:"_id"`
	Expiry    time.Time          `json:"expiry" bson:"expiry"`
}

// Create a session from a user id, with expiry, return error if it fails
func (s *Session) Create(db *mongo.Database) error {
	s.SessionID = primitive.NewObjectID()
	s.Expiry = time.Now().Add(time.Hour * 24)

	if (s.ID == primitive.ObjectID{}) {
		return errors.New("invalid item_id used to create session")
	}

	mar, err := bson.Marshal(s)
	if err != nil {
		return errors.New("something went wrong marshalling session struct")
	}
	var b *bson.D
	err = bson.Unmarshal(mar, &b)
	if err != nil {
		return errors.New("something went wrong marshalling session struct")
	}

	_, err = db.Collection("sessions").InsertOne(context.TODO(), b)
	if err != nil {
		return errors.New("something went wrong inserting session")
	}

	return nil
}

// FromID returns the stored session matching the session id
func (s *Session) FromID(db *mongo.Database) (*Session, error) {
	var filter = bson.D{{Key: "_id", Value: s.SessionID}}
	cursor, err := db.Collection("sessions").Find(context.TODO(), filter)
	if err != nil {
		return nil, err
	}
	var results []bson.D
	if err = cursor.All(context.TODO(), &results); err != nil {
		return nil, err
	}

	if len(results) < 1 {
		return nil, internal.Errorf(internal.KindUnauthorized, "no session found")
	}

	doc, err := bson.Marshal(&results[0])
	if err != nil {
		return nil, errors.New("something went wrong")
	}

	var session *Session
	err = bson.Unmarshal(doc, &session)
	if err != nil {
		log.Errorf("unable to unmarshal session: %s", err)
		return nil, errors.New("something went wrong unmarshalling session data")
	}

	return session, nil
}

// Caller resolves the session back to its user, rejecting expired sessions
// and claims whose item id does not match the stored session.
func (s *Session) Caller(db *mongo.Database) (*users.User, error) {
	stored, err := s.FromID(db)
	if err != nil {
		return nil, err
	}

	if time.Now().After(stored.Expiry) {
		return nil, internal.Errorf(internal.KindUnauthorized, "token expired")
	}

	if s.ID != stored.ID {
		return nil, internal.Errorf(internal.KindUnauthorized, "item id mismatch")
	}

	user := users.User{ID: stored.ID}
	fromID, err := user.FromID(db)
	if err != nil {
		return nil, internal.Errorf(internal.KindUnauthorized, "no user for session")
	}

	return fromID, nil
}
