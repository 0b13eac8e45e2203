package datastore

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"rollcall.io/infrastructure/logger"
)

var (
	PersonModel            *mongo.Collection
	GeoFenceModel          *mongo.Collection
	AttendanceSessionModel *mongo.Collection
	AttendanceRecordModel  *mongo.Collection
	MonthlyReportModel     *mongo.Collection

	client *mongo.Client
)

func ConnectToDatabase() {
	cancel := connectMongo()
	if cancel != nil {
		(*cancel)()
	}
}

func connectMongo() *context.CancelFunc {
	url := os.Getenv("DB_URL")

	if url == "" {
		logger.Error("mongo url missing")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)

	clientOpts := options.Client().ApplyURI(url)
	clientOpts.SetMinPoolSize(5)
	clientOpts.SetMaxPoolSize(10)

	var err error
	client, err = mongo.Connect(ctx, clientOpts)

	if err != nil {
		logger.Warning("an error occured while starting the database", logger.LoggerOptions{Key: "error", Data: err})
		return &cancel
	}

	db := client.Database(os.Getenv("DB_NAME"))
	setUpIndexes(ctx, db)

	logger.Info("connected to mongodb successfully")
	return &cancel
}

// Set up the indexes for the database
func setUpIndexes(ctx context.Context, db *mongo.Database) {
	PersonModel = db.Collection("Persons")
	createIndexes(ctx, PersonModel, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}, {
		Keys:    bson.D{{Key: "rollNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	}})

	GeoFenceModel = db.Collection("GeoFences")

	AttendanceSessionModel = db.Collection("AttendanceSessions")
	createIndexes(ctx, AttendanceSessionModel, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "active", Value: 1}, {Key: "endTime", Value: 1}},
		Options: options.Index(),
	}, {
		Keys:    bson.D{{Key: "startTime", Value: 1}},
		Options: options.Index(),
	}})

	// the unique (personID, sessionID) pair is what makes marking exactly-once
	AttendanceRecordModel = db.Collection("AttendanceRecords")
	createIndexes(ctx, AttendanceRecordModel, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "personID", Value: 1}, {Key: "sessionID", Value: 1}},
		Options: options.Index().SetUnique(true),
	}, {
		Keys:    bson.D{{Key: "sessionID", Value: 1}},
		Options: options.Index(),
	}})

	MonthlyReportModel = db.Collection("MonthlyReports")
	createIndexes(ctx, MonthlyReportModel, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "personID", Value: 1}, {Key: "month", Value: 1}},
		Options: options.Index().SetUnique(true),
	}})

	logger.Info("mongodb indexes set up successfully")
}

func createIndexes(ctx context.Context, collection *mongo.Collection, models []mongo.IndexModel) {
	_, err := collection.Indexes().CreateMany(ctx, models)
	if err != nil {
		logger.Error("failed to create mongodb indexes", logger.LoggerOptions{
			Key:  "collection",
			Data: collection.Name(),
		}, logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}
}

func CleanUp() {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Error("failed to disconnect from mongodb", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}
}
