package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Businesses       *mongo.Collection
	WeeklyHours      *mongo.Collection
	Exceptions       *mongo.Collection
	AppointmentTypes *mongo.Collection
	Appointments     *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	db := client.Database(dbName)

	cols := &Collections{
		Businesses:       db.Collection("businesses"),
		WeeklyHours:      db.Collection("weekly_hours"),
		Exceptions:       db.Collection("schedule_exceptions"),
		AppointmentTypes: db.Collection("appointment_types"),
		Appointments:     db.Collection("appointments"),
	}

	return client, cols, nil
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cols.WeeklyHours.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "weekday", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Exceptions.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.AppointmentTypes.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "businessId", Value: 1}, {Key: "active", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	// The (businessId, startAt) index is where a booking writer would hang a
	// unique constraint to close the check-then-commit race; the engine itself
	// only reads.
	_, err = cols.Appointments.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "businessId", Value: 1}, {Key: "status", Value: 1}, {Key: "startAt", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "businessId", Value: 1}, {Key: "startAt", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	return nil
}
