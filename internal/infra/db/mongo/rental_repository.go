package mongo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
)

type ApartmentRepository struct {
	col *mongo.Collection
}

func NewApartmentRepository(db *mongo.Database) *ApartmentRepository {
	return &ApartmentRepository{col: db.Collection("apartments")}
}

func (r *ApartmentRepository) ByID(ctx context.Context, id domainrental.ApartmentID) (*domainrental.Apartment, error) {
	var doc apartmentDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrental.ErrApartmentNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *ApartmentRepository) Save(ctx context.Context, a *domainrental.Apartment) error {
	doc := newApartmentDocument(a)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *ApartmentRepository) List(ctx context.Context) ([]*domainrental.Apartment, error) {
	return r.find(ctx, bson.M{})
}

func (r *ApartmentRepository) ListActive(ctx context.Context) ([]*domainrental.Apartment, error) {
	return r.find(ctx, bson.M{"is_active": true})
}

func (r *ApartmentRepository) find(ctx context.Context, filter bson.M) ([]*domainrental.Apartment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainrental.Apartment
	for cursor.Next(ctx) {
		var doc apartmentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		a, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, cursor.Err()
}

type apartmentDocument struct {
	ID            string `bson:"_id"`
	Name          string `bson:"name"`
	Description   string `bson:"description"`
	PricePerNight string `bson:"price_per_night"`
	IsActive      bool   `bson:"is_active"`
	Color         string `bson:"color"`
	WholeProperty bool   `bson:"whole_property"`
}

func newApartmentDocument(a *domainrental.Apartment) apartmentDocument {
	return apartmentDocument{
		ID:            string(a.ID),
		Name:          a.Name,
		Description:   a.Description,
		PricePerNight: a.PricePerNight.String(),
		IsActive:      a.IsActive,
		Color:         a.Color,
		WholeProperty: a.WholeProperty,
	}
}

func (d apartmentDocument) toAggregate() (*domainrental.Apartment, error) {
	price, err := decimal.NewFromString(d.PricePerNight)
	if err != nil {
		return nil, err
	}
	return &domainrental.Apartment{
		ID:            domainrental.ApartmentID(d.ID),
		Name:          d.Name,
		Description:   d.Description,
		PricePerNight: price,
		IsActive:      d.IsActive,
		Color:         d.Color,
		WholeProperty: d.WholeProperty,
	}, nil
}

type SeasonalRateRepository struct {
	col *mongo.Collection
}

func NewSeasonalRateRepository(db *mongo.Database) *SeasonalRateRepository {
	return &SeasonalRateRepository{col: db.Collection("seasonal_rates")}
}

func (r *SeasonalRateRepository) Save(ctx context.Context, rate *domainrental.SeasonalRate) error {
	doc := newSeasonalRateDocument(rate)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *SeasonalRateRepository) ListByApartment(ctx context.Context, id domainrental.ApartmentID) ([]*domainrental.SeasonalRate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"apartment_id": string(id)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainrental.SeasonalRate
	for cursor.Next(ctx) {
		var doc seasonalRateDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rate, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, rate)
	}
	return out, cursor.Err()
}

type seasonalRateDocument struct {
	ID            string `bson:"_id"`
	ApartmentID   string `bson:"apartment_id"`
	StartDate     int64  `bson:"start_date"`
	EndDate       int64  `bson:"end_date"`
	PricePerNight string `bson:"price_per_night,omitempty"`
	PercentAdjust string `bson:"percent_adjust,omitempty"`
}

func newSeasonalRateDocument(rate *domainrental.SeasonalRate) seasonalRateDocument {
	doc := seasonalRateDocument{
		ID:          string(rate.ID),
		ApartmentID: string(rate.ApartmentID),
		StartDate:   rate.StartDate.UnixMilli(),
		EndDate:     rate.EndDate.UnixMilli(),
	}
	if rate.PricePerNight != nil {
		doc.PricePerNight = rate.PricePerNight.String()
	}
	if rate.PercentAdjust != nil {
		doc.PercentAdjust = rate.PercentAdjust.String()
	}
	return doc
}

func (d seasonalRateDocument) toAggregate() (*domainrental.SeasonalRate, error) {
	rate := &domainrental.SeasonalRate{
		ID:          domainrental.SeasonalRateID(d.ID),
		ApartmentID: domainrental.ApartmentID(d.ApartmentID),
		StartDate:   timestampToTime(d.StartDate),
		EndDate:     timestampToTime(d.EndDate),
	}
	if d.PricePerNight != "" {
		price, err := decimal.NewFromString(d.PricePerNight)
		if err != nil {
			return nil, err
		}
		rate.PricePerNight = &price
	}
	if d.PercentAdjust != "" {
		percent, err := decimal.NewFromString(d.PercentAdjust)
		if err != nil {
			return nil, err
		}
		rate.PercentAdjust = &percent
	}
	return rate, nil
}
