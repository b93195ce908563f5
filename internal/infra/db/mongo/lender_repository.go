package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
)

type LenderRepository struct {
	col *mongo.Collection
}

func NewLenderRepository(db *mongo.Database) *LenderRepository {
	return &LenderRepository{col: db.Collection("lenders")}
}

func (r *LenderRepository) ByID(ctx context.Context, id domainlender.LenderID) (*domainlender.Lender, error) {
	var doc lenderDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlender.ErrLenderNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *LenderRepository) Save(ctx context.Context, l *domainlender.Lender) error {
	doc := newLenderDocument(l)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *LenderRepository) List(ctx context.Context) ([]*domainlender.Lender, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainlender.Lender
	for cursor.Next(ctx) {
		var doc lenderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		l, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, cursor.Err()
}

type lenderDocument struct {
	ID              string `bson:"_id"`
	FirstName       string `bson:"first_name"`
	LastName        string `bson:"last_name"`
	Street          string `bson:"street"`
	HouseNumber     string `bson:"house_number"`
	PostalCode      string `bson:"postal_code"`
	Country         string `bson:"country"`
	Email           string `bson:"email"`
	Mobile          string `bson:"mobile"`
	WhatsApp        string `bson:"whatsapp"`
	Language        string `bson:"language"`
	DiscountPercent string `bson:"discount_percent"`
}

func newLenderDocument(l *domainlender.Lender) lenderDocument {
	return lenderDocument{
		ID:              string(l.ID),
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		Street:          l.Street,
		HouseNumber:     l.HouseNumber,
		PostalCode:      l.PostalCode,
		Country:         l.Country,
		Email:           l.Email,
		Mobile:          l.Mobile,
		WhatsApp:        l.WhatsApp,
		Language:        string(l.Language),
		DiscountPercent: l.DiscountPercent.String(),
	}
}

func (d lenderDocument) toAggregate() (*domainlender.Lender, error) {
	discount, err := decimal.NewFromString(d.DiscountPercent)
	if err != nil {
		return nil, err
	}
	return &domainlender.Lender{
		ID:              domainlender.LenderID(d.ID),
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Street:          d.Street,
		HouseNumber:     d.HouseNumber,
		PostalCode:      d.PostalCode,
		Country:         d.Country,
		Email:           d.Email,
		Mobile:          d.Mobile,
		WhatsApp:        d.WhatsApp,
		Language:        domainlender.Language(d.Language),
		DiscountPercent: discount,
	}, nil
}

type PaymentRepository struct {
	col     *mongo.Collection
	lenders *LenderRepository
}

func NewPaymentRepository(db *mongo.Database, lenders *LenderRepository) *PaymentRepository {
	return &PaymentRepository{col: db.Collection("payments"), lenders: lenders}
}

func (r *PaymentRepository) ByID(ctx context.Context, id domainlender.PaymentID) (*domainlender.Payment, error) {
	var doc paymentDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlender.ErrPaymentNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *PaymentRepository) Save(ctx context.Context, p *domainlender.Payment) error {
	doc := newPaymentDocument(p)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *PaymentRepository) ListByLender(ctx context.Context, id domainlender.LenderID) ([]*domainlender.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"lender_id": string(id)}, opts)
	if err != nil {
		return nil, err
	}
	return decodePayments(ctx, cursor)
}

// List resolves lender names first; the documents only carry lender ids and
// the report wants lender last name order.
func (r *PaymentRepository) List(ctx context.Context) ([]*domainlender.Payment, error) {
	lenders, err := r.lenders.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domainlender.Payment
	for _, l := range lenders {
		payments, err := r.ListByLender(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, payments...)
	}
	return out, nil
}

func decodePayments(ctx context.Context, cursor *mongo.Cursor) ([]*domainlender.Payment, error) {
	defer cursor.Close(ctx)
	var out []*domainlender.Payment
	for cursor.Next(ctx) {
		var doc paymentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		p, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, cursor.Err()
}

type paymentDocument struct {
	ID             string `bson:"_id"`
	LenderID       string `bson:"lender_id"`
	Date           int64  `bson:"date"`
	OriginalAmount string `bson:"original_amount"`
	Currency       string `bson:"currency"`
	ExchangeRate   string `bson:"exchange_rate"`
	LoanID         string `bson:"loan_id"`
}

func newPaymentDocument(p *domainlender.Payment) paymentDocument {
	return paymentDocument{
		ID:             string(p.ID),
		LenderID:       string(p.LenderID),
		Date:           p.Date.UnixMilli(),
		OriginalAmount: p.OriginalAmount.String(),
		Currency:       string(p.Currency),
		ExchangeRate:   p.ExchangeRate.String(),
		LoanID:         string(p.LoanID),
	}
}

func (d paymentDocument) toAggregate() (*domainlender.Payment, error) {
	amount, err := decimal.NewFromString(d.OriginalAmount)
	if err != nil {
		return nil, err
	}
	rate, err := decimal.NewFromString(d.ExchangeRate)
	if err != nil {
		return nil, err
	}
	return &domainlender.Payment{
		ID:             domainlender.PaymentID(d.ID),
		LenderID:       domainlender.LenderID(d.LenderID),
		Date:           timestampToTime(d.Date),
		OriginalAmount: amount,
		Currency:       money.Currency(d.Currency),
		ExchangeRate:   rate,
		LoanID:         domainlender.LoanID(d.LoanID),
	}, nil
}

type LoanRepository struct {
	col *mongo.Collection
}

func NewLoanRepository(db *mongo.Database) *LoanRepository {
	return &LoanRepository{col: db.Collection("loans")}
}

func (r *LoanRepository) Save(ctx context.Context, l *domainlender.Loan) error {
	doc := newLoanDocument(l)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *LoanRepository) FlexibleByLender(ctx context.Context, id domainlender.LenderID) (*domainlender.Loan, error) {
	filter := bson.M{"lender_id": string(id), "type": string(domainlender.LoanFlexible)}
	var doc loanDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toAggregate()
}

type loanDocument struct {
	ID           string `bson:"_id"`
	LenderID     string `bson:"lender_id"`
	Type         string `bson:"type"`
	TargetAmount string `bson:"target_amount,omitempty"`
	CreatedAt    int64  `bson:"created_at"`
}

func newLoanDocument(l *domainlender.Loan) loanDocument {
	doc := loanDocument{
		ID:        string(l.ID),
		LenderID:  string(l.LenderID),
		Type:      string(l.Type),
		CreatedAt: l.CreatedAt.UnixMilli(),
	}
	if l.TargetAmount != nil {
		doc.TargetAmount = l.TargetAmount.String()
	}
	return doc
}

func (d loanDocument) toAggregate() (*domainlender.Loan, error) {
	l := &domainlender.Loan{
		ID:        domainlender.LoanID(d.ID),
		LenderID:  domainlender.LenderID(d.LenderID),
		Type:      domainlender.LoanType(d.Type),
		CreatedAt: timestampToTime(d.CreatedAt),
	}
	if d.TargetAmount != "" {
		target, err := decimal.NewFromString(d.TargetAmount)
		if err != nil {
			return nil, err
		}
		l.TargetAmount = &target
	}
	return l, nil
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
