package main

import (
	"context"
	"log"
	"time"

	"agenda-backend/internal/config"
	"agenda-backend/internal/db"
	"agenda-backend/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const demoBusinessID = "demo-estetica-aurora"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	business := models.Business{
		ID:        demoBusinessID,
		Name:      "Estética Aurora",
		Timezone:  "America/Mexico_City",
		CreatedAt: time.Now().UTC(),
	}
	if err := upsert(ctx, cols.Businesses, bson.M{"_id": business.ID}, business); err != nil {
		log.Fatal(err)
	}

	// Tuesday through Saturday, Saturdays close early.
	weekly := []models.WeeklyHours{
		{Weekday: 2, OpenTime: "09:00", CloseTime: "18:00"},
		{Weekday: 3, OpenTime: "09:00", CloseTime: "18:00"},
		{Weekday: 4, OpenTime: "09:00", CloseTime: "18:00"},
		{Weekday: 5, OpenTime: "09:00", CloseTime: "18:00"},
		{Weekday: 6, OpenTime: "09:00", CloseTime: "13:00"},
	}
	for _, row := range weekly {
		row.ID = uuid.NewString()
		row.BusinessID = demoBusinessID
		filter := bson.M{"businessId": row.BusinessID, "weekday": row.Weekday}
		if err := upsert(ctx, cols.WeeklyHours, filter, row); err != nil {
			log.Fatal(err)
		}
	}

	// Exception dates are stored at UTC midnight; matching is by date only.
	exceptions := []models.ScheduleException{
		{
			Date:   time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC),
			Closed: true,
			Reason: "Navidad",
		},
		{
			Date:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Closed: true,
			Reason: "Año Nuevo",
		},
	}
	for _, exc := range exceptions {
		exc.ID = uuid.NewString()
		exc.BusinessID = demoBusinessID
		filter := bson.M{"businessId": exc.BusinessID, "date": exc.Date}
		if err := upsert(ctx, cols.Exceptions, filter, exc); err != nil {
			log.Fatal(err)
		}
	}

	types := []models.AppointmentType{
		{ID: "corte", Name: "Corte de cabello", DurationMinutes: 30, ConcurrencyLimit: 2, Active: true},
		{ID: "tinte", Name: "Tinte y color", DurationMinutes: 90, ConcurrencyLimit: 1, Active: true},
		{ID: "manicure", Name: "Manicure", DurationMinutes: 45, ConcurrencyLimit: 2, Active: true},
	}
	for _, typ := range types {
		typ.BusinessID = demoBusinessID
		if err := upsert(ctx, cols.AppointmentTypes, bson.M{"_id": typ.ID}, typ); err != nil {
			log.Fatal(err)
		}
	}

	log.Println("seed complete")
}

func upsert(ctx context.Context, col *mongo.Collection, filter bson.M, doc interface{}) error {
	_, err := col.UpdateOne(ctx, filter, bson.M{"$setOnInsert": doc}, options.Update().SetUpsert(true))
	return err
}
