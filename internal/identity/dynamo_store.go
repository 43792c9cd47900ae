package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/carepulse/intake-platform/pkg/logging"
)

// idIndexName is the GSI that resolves users by generated id. The table
// itself is keyed by email so the directory can enforce one user per address
// with a conditional write.
const idIndexName = "id-index"

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type userRecord struct {
	Email     string `dynamodbav:"email"`
	ID        string `dynamodbav:"id"`
	Name      string `dynamodbav:"name"`
	Phone     string `dynamodbav:"phone"`
	CreatedAt string `dynamodbav:"createdAt"`
}

// DynamoStore persists users to DynamoDB.
type DynamoStore struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

// NewDynamoStore builds a store backed by the provided DynamoDB client.
func NewDynamoStore(client dynamoAPI, tableName string, logger *logging.Logger) *DynamoStore {
	if client == nil {
		panic("identity: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("identity: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &DynamoStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Create inserts a new user keyed by email. When the email is already taken
// the conditional write fails and the existing user is returned instead; the
// duplicate is not surfaced as an error.
func (s *DynamoStore) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rec := userRecord{
		Email:     req.NormalizedEmail(),
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("identity: failed to marshal user: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if err != nil {
		var conflict *types.ConditionalCheckFailedException
		if errors.As(err, &conflict) {
			existing, lookupErr := s.getByEmail(ctx, rec.Email)
			if lookupErr != nil {
				return nil, lookupErr
			}
			s.logger.Info("user already exists, returning existing record",
				"email", rec.Email, "user_id", existing.ID)
			return existing, nil
		}
		return nil, fmt.Errorf("identity: failed to persist user: %w", err)
	}

	return rec.toUser(), nil
}

// Get resolves a user by id through the id GSI.
func (s *DynamoStore) Get(ctx context.Context, id string) (*User, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String(idIndexName),
		KeyConditionExpression: aws.String("id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: id},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("identity: failed to query user %s: %w", id, err)
	}
	if len(out.Items) == 0 {
		return nil, ErrUserNotFound
	}

	var rec userRecord
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return nil, fmt.Errorf("identity: failed to decode user %s: %w", id, err)
	}
	return rec.toUser(), nil
}

func (s *DynamoStore) getByEmail(ctx context.Context, email string) (*User, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("identity: failed to load user by email: %w", err)
	}
	if out.Item == nil {
		return nil, ErrUserNotFound
	}

	var rec userRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("identity: failed to decode user by email: %w", err)
	}
	return rec.toUser(), nil
}

func (r userRecord) toUser() *User {
	createdAt, _ := time.Parse(time.RFC3339Nano, r.CreatedAt)
	return &User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		CreatedAt: createdAt,
	}
}

var _ Store = (*DynamoStore)(nil)
