package users

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"padel-backend/internal"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// DefaultImage is the avatar every account starts with until a file is
// uploaded for it.
const DefaultImage = "assets/avatar.png"

type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	Email        string               `bson:"email" json:"email"`
	Password     string               `bson:"password" json:"-"` // bcrypt hash, never serialized
	Phone        int64                `bson:"phone" json:"phone"`
	Role         Role                 `bson:"role" json:"role"`
	Image        string               `bson:"image" json:"image"`
	PadelMatches []primitive.ObjectID `bson:"padelMatches" json:"padelMatches"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Create inserts the user. Password is expected as plaintext and is replaced
// by its hash here, nowhere else on the create path, so it cannot be hashed
// twice. Returns a duplicate error when a unique index rejects the insert.
func (u *User) Create(db *mongo.Database) error {
	u.ID = primitive.NewObjectID()
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Image == "" {
		u.Image = DefaultImage
	}
	if u.PadelMatches == nil {
		u.PadelMatches = []primitive.ObjectID{}
	}

	hash, err := HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hash

	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()

	mar, err := bson.Marshal(u)
	if err != nil {
		return errors.New("something went wrong marshalling user struct")
	}
	var b *bson.D
	err = bson.Unmarshal(mar, &b)
	if err != nil {
		return errors.New("something went wrong marshalling user struct")
	}

	_, err = db.Collection("users").InsertOne(context.TODO(), b)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return internal.Errorf(internal.KindDuplicate, "a user with that name, email or phone already exists")
		}
		return err
	}

	log.Info("inserted user with the id " + u.ID.Hex())

	return nil
}

// FromID returns the user with the provided ID.
func (u *User) FromID(db *mongo.Database) (*User, error) {
	return findOne(db, bson.D{{Key: "_id", Value: u.ID}})
}

// FromIdentity looks a user up by name or email, whichever matches. Login
// accepts either in a single field.
func FromIdentity(identity string, db *mongo.Database) (*User, error) {
	var filter = bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "name", Value: identity}},
		bson.D{{Key: "email", Value: identity}},
	}}}
	return findOne(db, filter)
}

// FindConflicting returns a user sharing name, email or phone with the given
// values, ignoring the record identified by exclude so an update does not
// collide with its own target.
func FindConflicting(name, email string, phone int64, exclude primitive.ObjectID, db *mongo.Database) (*User, error) {
	var or bson.A
	if name != "" {
		or = append(or, bson.D{{Key: "name", Value: name}})
	}
	if email != "" {
		or = append(or, bson.D{{Key: "email", Value: email}})
	}
	if phone != 0 {
		or = append(or, bson.D{{Key: "phone", Value: phone}})
	}
	if len(or) == 0 {
		return nil, internal.Errorf(internal.KindNotFound, "no user found")
	}

	filter := bson.D{{Key: "$or", Value: or}}
	if !exclude.IsZero() {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$ne", Value: exclude}}})
	}

	return findOne(db, filter)
}

// All returns every user in the collection.
func All(db *mongo.Database) ([]User, error) {
	return findMany(db, bson.D{})
}

// FindByName returns users whose name contains the fragment,
// case-insensitive.
func FindByName(name string, db *mongo.Database) ([]User, error) {
	filter := bson.D{{Key: "name", Value: primitive.Regex{Pattern: name, Options: "i"}}}
	return findMany(db, filter)
}

// FindByPhone returns users with exactly the given phone number.
func FindByPhone(phone int64, db *mongo.Database) ([]User, error) {
	return findMany(db, bson.D{{Key: "phone", Value: phone}})
}

// Replace persists the full document by id. The password field must already
// hold a hash; SetPassword is the only way a new plaintext enters the struct.
func (u *User) Replace(db *mongo.Database) error {
	u.UpdatedAt = time.Now()

	res, err := db.Collection("users").ReplaceOne(context.TODO(), bson.D{{Key: "_id", Value: u.ID}}, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return internal.Errorf(internal.KindDuplicate, "a user with that name, email or phone already exists")
		}
		return err
	}
	if res.MatchedCount == 0 {
		return internal.Errorf(internal.KindNotFound, "no user found")
	}

	log.Info("replaced user with the id " + u.ID.Hex())

	return nil
}

// SetPassword validates the plaintext and stores its hash on the struct.
func (u *User) SetPassword(plain string) error {
	if err := ValidatePassword(plain); err != nil {
		return err
	}
	hash, err := HashPassword(plain)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

// Delete removes the user by id and returns the deleted document.
func (u *User) Delete(db *mongo.Database) (*User, error) {
	res := db.Collection("users").FindOneAndDelete(context.TODO(), bson.D{{Key: "_id", Value: u.ID}})

	var deleted User
	err := res.Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, internal.Errorf(internal.KindNotFound, "no user found")
		}
		return nil, err
	}

	log.Info("deleted user with the id " + u.ID.Hex())

	return &deleted, nil
}

// AddMatch appends a match reference to the user's padelMatches list.
func (u *User) AddMatch(match primitive.ObjectID, db *mongo.Database) error {
	if internal.ContainsObjectID(u.PadelMatches, match) {
		return nil
	}

	filter := bson.D{{Key: "_id", Value: u.ID}}
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "padelMatches", Value: match}}}}

	_, err := db.Collection("users").UpdateOne(context.TODO(), filter, update)
	if err != nil {
		return err
	}
	u.PadelMatches = append(u.PadelMatches, match)

	return nil
}

func findOne(db *mongo.Database, filter bson.D) (*User, error) {
	cursor, err := db.Collection("users").Find(context.TODO(), filter, options.Find().SetLimit(1))
	if err != nil {
		return nil, err
	}
	var results []bson.D
	if err = cursor.All(context.TODO(), &results); err != nil {
		return nil, err
	}

	if len(results) < 1 {
		return nil, internal.Errorf(internal.KindNotFound, "no user found")
	}

	doc, err := bson.Marshal(&results[0])
	if err != nil {
		return nil, errors.New("something went wrong")
	}

	var user *User
	err = bson.Unmarshal(doc, &user)
	if err != nil {
		log.Errorf("unable to unmarshal user: %s", err)
		return nil, errors.New("something went wrong unmarshalling user data")
	}

	return user, nil
}

func findMany(db *mongo.Database, filter bson.D) ([]User, error) {
	cursor, err := db.Collection("users").Find(context.TODO(), filter)
	if err != nil {
		return nil, err
	}
	var results []bson.D
	if err = cursor.All(context.TODO(), &results); err != nil {
		return nil, errors.New("unable to search database for users")
	}

	users := make([]User, 0, len(results))
	for i := range results {
		doc, err := bson.Marshal(&results[i])
		if err != nil {
			return nil, err
		}
		var u User
		err = bson.Unmarshal(doc, &u)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, nil
}
