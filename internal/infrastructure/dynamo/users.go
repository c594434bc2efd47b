package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/andreanaya/go-account/internal/domain"
	"github.com/andreanaya/go-account/internal/pkg/id"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldUsername            = "username"
	fieldEmail               = "email"
	fieldPasswordHash        = "password_hash"
	fieldActive              = "active"
	fieldCredentialChangedAt = "credential_changed_at"
)

// UserRepo is the credential store adapter: it owns the users table and is
// the only place password hashes are computed or compared.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.queryGSI(ctx, "username-index", fieldUsername, username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.queryGSI(ctx, "email-index", fieldEmail, email)
}

// Create hashes the password and persists a new inactive account.
// Uniqueness violations on username or email come back as
// *domain.ConflictError naming the offending field.
func (r *UserRepo) Create(ctx context.Context, username, email, password string) (*domain.User, error) {
	if _, err := r.GetByUsername(ctx, username); err == nil {
		return nil, &domain.ConflictError{Field: "username", Value: username}
	}
	if _, err := r.GetByEmail(ctx, email); err == nil {
		return nil, &domain.ConflictError{Field: "email", Value: email}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:              id.New(),
		Username:            username,
		Email:               email,
		PasswordHash:        string(hash),
		Active:              false,
		CredentialChangedAt: now.Unix(),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateFields applies a partial update and bumps updated_at. The password
// never goes through here; use SetPassword so the revocation anchor moves
// with it.
func (r *UserRepo) UpdateFields(ctx context.Context, userID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("user_id", userID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

// SetPassword re-hashes the credential and bumps credential_changed_at,
// which retroactively revokes every token issued before this moment.
func (r *UserRepo) SetPassword(ctx context.Context, userID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return r.UpdateFields(ctx, userID, map[string]interface{}{
		fieldPasswordHash:        string(hash),
		fieldCredentialChangedAt: time.Now().Unix(),
	})
}

// Activate flips the account to active. Called exactly once, on email
// confirmation.
func (r *UserRepo) Activate(ctx context.Context, userID string) error {
	return r.UpdateFields(ctx, userID, map[string]interface{}{fieldActive: true})
}

// Delete removes the account record. Hard delete, no tombstone.
func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	return err
}

// VerifyPassword reports whether plaintext matches the stored hash, using
// bcrypt's constant-time comparison.
func (r *UserRepo) VerifyPassword(u *domain.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (r *UserRepo) queryGSI(ctx context.Context, index, attr, value string) (*domain.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("user by %s: %w", attr, domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, err
	}
	return &u, nil
}
