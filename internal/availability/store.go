package availability

import (
	"context"
	"errors"
	"time"

	"agenda-backend/internal/db"
	"agenda-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("not found")

// Store is the engine's read-only view of the scheduling data. The engine
// never writes; committing a booking (and closing the check-then-commit race
// with a unique insert) belongs to the booking writer.
type Store interface {
	Business(ctx context.Context, id string) (models.Business, error)
	WeeklyHours(ctx context.Context, businessID string) ([]models.WeeklyHours, error)
	Exceptions(ctx context.Context, businessID string) ([]models.ScheduleException, error)
	AppointmentType(ctx context.Context, id string) (models.AppointmentType, error)
	ActiveAppointmentTypes(ctx context.Context, businessID string) ([]models.AppointmentType, error)
	// ActiveAppointments returns pending appointments with startAt in the
	// half-open [from, to) range.
	ActiveAppointments(ctx context.Context, businessID string, from, to time.Time) ([]models.Appointment, error)
}

type MongoStore struct {
	cols *db.Collections
}

func NewMongoStore(cols *db.Collections) *MongoStore {
	return &MongoStore{cols: cols}
}

func (s *MongoStore) Business(ctx context.Context, id string) (models.Business, error) {
	var business models.Business
	if err := s.cols.Businesses.FindOne(ctx, bson.M{"_id": id}).Decode(&business); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Business{}, ErrNotFound
		}
		return models.Business{}, err
	}
	return business, nil
}

func (s *MongoStore) WeeklyHours(ctx context.Context, businessID string) ([]models.WeeklyHours, error) {
	cursor, err := s.cols.WeeklyHours.Find(ctx, bson.M{"businessId": businessID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := make([]models.WeeklyHours, 0)
	for cursor.Next(ctx) {
		var row models.WeeklyHours
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, cursor.Err()
}

func (s *MongoStore) Exceptions(ctx context.Context, businessID string) ([]models.ScheduleException, error) {
	cursor, err := s.cols.Exceptions.Find(ctx, bson.M{"businessId": businessID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := make([]models.ScheduleException, 0)
	for cursor.Next(ctx) {
		var row models.ScheduleException
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, cursor.Err()
}

func (s *MongoStore) AppointmentType(ctx context.Context, id string) (models.AppointmentType, error) {
	var typ models.AppointmentType
	if err := s.cols.AppointmentTypes.FindOne(ctx, bson.M{"_id": id}).Decode(&typ); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.AppointmentType{}, ErrNotFound
		}
		return models.AppointmentType{}, err
	}
	return typ, nil
}

func (s *MongoStore) ActiveAppointmentTypes(ctx context.Context, businessID string) ([]models.AppointmentType, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.cols.AppointmentTypes.Find(ctx, bson.M{"businessId": businessID, "active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := make([]models.AppointmentType, 0)
	for cursor.Next(ctx) {
		var typ models.AppointmentType
		if err := cursor.Decode(&typ); err != nil {
			return nil, err
		}
		rows = append(rows, typ)
	}
	return rows, cursor.Err()
}

func (s *MongoStore) ActiveAppointments(ctx context.Context, businessID string, from, to time.Time) ([]models.Appointment, error) {
	filter := bson.M{
		"businessId": businessID,
		"status":     models.AppointmentStatusPending,
		"startAt":    bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := s.cols.Appointments.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := make([]models.Appointment, 0)
	for cursor.Next(ctx) {
		var appt models.Appointment
		if err := cursor.Decode(&appt); err != nil {
			return nil, err
		}
		rows = append(rows, appt)
	}
	return rows, cursor.Err()
}
