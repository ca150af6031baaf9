package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultCollection = "users"
	defaultOpTimeout  = 5 * time.Second
	defaultBcryptCost = 12

	minNameLength     = 2
	maxNameLength     = 50
	minPasswordLength = 6
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Connection provides access to the live store connection. Satisfied by
// *mongoconn.Manager; a Database error means the store is unreachable.
type Connection interface {
	Database(name string) (*mongo.Database, error)
}

// disconnectReporter is implemented by connection managers that want to be
// told when an operation observed a network failure.
type disconnectReporter interface {
	ReportDisconnect(error)
}

// Client performs identity store operations. Safe for concurrent use; the
// underlying driver provides per-operation atomicity, so no request-level
// locking is needed here.
type Client struct {
	conn       Connection
	dbName     string
	collName   string
	log        *slog.Logger
	opTimeout  time.Duration
	bcryptCost int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets a custom logger for the client.
func WithLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithCollection overrides the collection name.
func WithCollection(name string) ClientOption {
	return func(c *Client) {
		if name != "" {
			c.collName = name
		}
	}
}

// WithOperationTimeout bounds every store operation.
func WithOperationTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.opTimeout = d
		}
	}
}

// WithBcryptCost sets the cost used when hashing new credentials.
func WithBcryptCost(cost int) ClientOption {
	return func(c *Client) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			c.bcryptCost = cost
		}
	}
}

// New creates an identity store client bound to the given database name on
// the shared connection.
func New(conn Connection, dbName string, opts ...ClientOption) *Client {
	c := &Client{
		conn:       conn,
		dbName:     dbName,
		collName:   defaultCollection,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		opTimeout:  defaultOpTimeout,
		bcryptCost: defaultBcryptCost,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindByEmail looks up an identity by its normalized email address.
func (c *Client) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	email = NormalizeEmail(email)

	coll, err := c.collection()
	if err != nil {
		return nil, err
	}

	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	var ident Identity
	if err := coll.FindOne(opCtx, bson.M{"email": email}).Decode(&ident); err != nil {
		return nil, c.mapError(err)
	}
	return &ident, nil
}

// FindByID looks up an identity by its hex object id. Malformed ids are
// rejected with ErrInvalidID without ever querying the store.
func (c *Client) FindByID(ctx context.Context, id string) (*Identity, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	coll, err := c.collection()
	if err != nil {
		return nil, err
	}

	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	var ident Identity
	if err := coll.FindOne(opCtx, bson.M{"_id": oid}).Decode(&ident); err != nil {
		return nil, c.mapError(err)
	}
	return &ident, nil
}

// VerifyPassword compares a plaintext credential against the stored hash.
// It always returns a boolean; a mismatch is not an error.
func (c *Client) VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// RecordUsage idempotently adds the service name to the identity's service
// set and stamps the last-login time, returning the updated record. Safe to
// call on every successful validation.
func (c *Client) RecordUsage(ctx context.Context, id, serviceName string) (*Identity, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	coll, err := c.collection()
	if err != nil {
		return nil, err
	}

	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	now := time.Now()
	update := bson.M{
		"$addToSet": bson.M{"services": serviceName},
		"$set":      bson.M{"last_login_at": now, "updated_at": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ident Identity
	if err := coll.FindOneAndUpdate(opCtx, bson.M{"_id": oid}, update, opts).Decode(&ident); err != nil {
		return nil, c.mapError(err)
	}
	return &ident, nil
}

// Create registers a new identity. The email's uniqueness is enforced by
// the store's unique index, so a concurrent duplicate insert loses with
// ErrEmailAlreadyExists rather than racing past an in-memory check.
func (c *Client) Create(ctx context.Context, name, email, password string) (*Identity, error) {
	name = strings.TrimSpace(name)
	if len(name) < minNameLength || len(name) > maxNameLength {
		return nil, ErrInvalidName
	}

	email = NormalizeEmail(email)
	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	coll, err := c.collection()
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ident := &Identity{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Services:     []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	res, err := coll.InsertOne(opCtx, ident)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, c.mapError(err)
	}

	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		ident.ID = oid
	}
	c.log.Info("identity created", slog.String("email", ident.Email), slog.String("id", ident.ID.Hex()))
	return ident, nil
}

// EnsureIndexes creates the unique email index plus the lookup indexes
// used for reporting queries. Idempotent; call once at startup.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	coll, err := c.collection()
	if err != nil {
		return err
	}

	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	_, err = coll.Indexes().CreateMany(opCtx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "last_login_at", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return c.mapError(err)
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email address the same way the
// store normalizes it, so lookups match regardless of caller formatting.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (c *Client) collection() (*mongo.Collection, error) {
	db, err := c.conn.Database(c.dbName)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return db.Collection(c.collName), nil
}

func (c *Client) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.opTimeout)
}

// mapError translates driver errors into the package taxonomy. Timeouts and
// network failures count as store unavailability, and the connection
// manager is told so it can start its retry cycle.
func (c *Client) mapError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case errors.Is(err, context.DeadlineExceeded),
		mongo.IsTimeout(err),
		mongo.IsNetworkError(err):
		if rep, ok := c.conn.(disconnectReporter); ok {
			rep.ReportDisconnect(err)
		}
		c.log.Warn("identity store operation failed", slog.Any("error", err))
		return errors.Join(ErrStoreUnavailable, err)
	default:
		return err
	}
}
