package internal

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DatabaseConnection struct {
	URI         string
	DB          string
	MongoDB     *mongo.Database
	MongoClient *mongo.Client
	Logger      *logrus.Logger
}

func (d *DatabaseConnection) Connect() {
	var err error
	session := options.Client().ApplyURI(d.URI)
	d.MongoClient, err = mongo.Connect(context.TODO(), session)
	if err != nil {
		d.Logger.Fatal(err)
	}
	d.MongoDB = d.MongoClient.Database(d.DB)
	d.Logger.Infof("Successfully connected to database: %s", d.DB)
}

// EnsureIndexes creates the unique indexes on the users collection. The
// duplicate pre-checks in the handlers only produce friendly messages; these
// indexes are what actually keep two concurrent registrations from both
// inserting the same name, email or phone.
func (d *DatabaseConnection) EnsureIndexes() {
	unique := options.Index().SetUnique(true)
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: unique},
	}

	_, err := d.MongoDB.Collection("users").Indexes().CreateMany(context.TODO(), models)
	if err != nil {
		d.Logger.Fatalf("failed to create user indexes: %s", err)
	}
	d.Logger.Info("Ensured unique indexes on users collection")
}
