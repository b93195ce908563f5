package mongo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col        *mongo.Collection
	apartments *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{
		col:        db.Collection("bookings"),
		apartments: db.Collection("apartments"),
	}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

// Save uses the version as an optimistic lock against races on the same
// booking id, then bumps a guard counter on the apartment document inside
// the same session. Two transactions admitting bookings for one apartment
// both write that guard, so the second committer aborts with a write
// conflict instead of slipping past the overlap scan.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) || isWriteConflict(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	if _, err := r.apartments.UpdateOne(ctx, bson.M{"_id": doc.ApartmentID}, apartmentGuard()); err != nil {
		if isWriteConflict(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	b.Version = doc.Version
	return nil
}

// apartmentGuard is the update every booking save applies to its apartment
// document. Mongo only raises write conflicts for transactions touching the
// same document, so the shared counter is what makes concurrent admissions
// for one apartment collide.
func apartmentGuard() bson.M {
	return bson.M{"$inc": bson.M{"bookings_version": 1}}
}

func isWriteConflict(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return ce.Name == "WriteConflict" || ce.HasErrorLabel("TransientTransactionError")
	}
	return false
}

func (r *BookingRepository) ListByLender(ctx context.Context, id domainlender.LenderID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"lender_id": string(id)})
}

func (r *BookingRepository) ListByApartment(ctx context.Context, id domainrental.ApartmentID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"apartment_id": string(id)})
}

func (r *BookingRepository) List(ctx context.Context) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{})
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		b, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, cursor.Err()
}

type bookingDocument struct {
	ID               string `bson:"_id"`
	LenderID         string `bson:"lender_id"`
	ApartmentID      string `bson:"apartment_id"`
	StartDate        int64  `bson:"start_date"`
	EndDate          int64  `bson:"end_date"`
	CustomTotalPrice string `bson:"custom_total_price,omitempty"`
	OverrideConfirm  bool   `bson:"override_confirm"`
	CreatedAt        int64  `bson:"created_at"`
	Version          int64  `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	doc := bookingDocument{
		ID:              string(b.ID),
		LenderID:        string(b.LenderID),
		ApartmentID:     string(b.ApartmentID),
		StartDate:       b.Range.Start.UnixMilli(),
		EndDate:         b.Range.End.UnixMilli(),
		OverrideConfirm: b.OverrideConfirm,
		CreatedAt:       b.CreatedAt.UnixMilli(),
		Version:         b.Version,
	}
	if b.CustomTotalPrice != nil {
		doc.CustomTotalPrice = b.CustomTotalPrice.String()
	}
	return doc
}

func (d bookingDocument) toAggregate() (*domainbooking.Booking, error) {
	b := &domainbooking.Booking{
		ID:          domainbooking.BookingID(d.ID),
		LenderID:    domainlender.LenderID(d.LenderID),
		ApartmentID: domainrental.ApartmentID(d.ApartmentID),
		Range: daterange.DateRange{
			Start: timestampToTime(d.StartDate),
			End:   timestampToTime(d.EndDate),
		},
		OverrideConfirm: d.OverrideConfirm,
		CreatedAt:       timestampToTime(d.CreatedAt),
		Version:         d.Version,
	}
	if d.CustomTotalPrice != "" {
		price, err := decimal.NewFromString(d.CustomTotalPrice)
		if err != nil {
			return nil, err
		}
		b.CustomTotalPrice = &price
	}
	return b, nil
}
