package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
)

type dynamoPutter interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type dynamoLead struct {
	ID          string `dynamodbav:"id"`
	Name        string `dynamodbav:"name"`
	Email       string `dynamodbav:"email"`
	Phone       string `dynamodbav:"phone"`
	SubmittedAt string `dynamodbav:"submitted_at"`
}

// DynamoRepository stores leads as DynamoDB items keyed by id.
type DynamoRepository struct {
	client dynamoPutter
	table  string
}

// NewDynamoRepository returns a repository writing to table.
func NewDynamoRepository(client dynamoPutter, table string) (*DynamoRepository, error) {
	if client == nil {
		return nil, errors.New("leads: dynamodb client required")
	}
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, errors.New("leads: dynamodb table required")
	}
	return &DynamoRepository{client: client, table: table}, nil
}

// Create puts a new item, refusing to overwrite an existing id.
func (r *DynamoRepository) Create(ctx context.Context, lead *Lead) (*Lead, error) {
	submittedAt := lead.SubmittedAt.UTC()
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}
	stored := &Lead{
		ID:          uuid.NewString(),
		Name:        lead.Name,
		Email:       lead.Email,
		Phone:       lead.Phone,
		SubmittedAt: submittedAt,
	}

	item, err := attributevalue.MarshalMap(dynamoLead{
		ID:          stored.ID,
		Name:        stored.Name,
		Email:       stored.Email,
		Phone:       stored.Phone,
		SubmittedAt: submittedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("leads: marshal dynamodb item: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}); err != nil {
		return nil, fmt.Errorf("leads: dynamodb put failed: %w", err)
	}
	return stored, nil
}
