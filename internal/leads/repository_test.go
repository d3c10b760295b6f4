package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLead() *Lead {
	return &Lead{
		Name:        "Maria Silva",
		Email:       "maria@example.com",
		Phone:       "+55 11 99999-0000",
		SubmittedAt: time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC),
	}
}

func TestInMemoryRepositoryCreate(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, sampleLead())
	require.NoError(t, err)
	second, err := repo.Create(ctx, sampleLead())
	require.NoError(t, err)

	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "2", second.ID, "identical submissions become independent records")
	assert.Equal(t, 2, repo.Len())
	assert.Equal(t, "Maria Silva", first.Name)
	assert.False(t, first.SubmittedAt.IsZero())
}

func TestInMemoryRepositoryCancelledContext(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, sampleLead())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, repo.Len())
}

func TestPostgresRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)
	lead := sampleLead()
	returned := lead.SubmittedAt.Add(time.Millisecond)

	mock.ExpectQuery(`(?s)INSERT INTO leads.*RETURNING id, submitted_at`).
		WithArgs(pgxmock.AnyArg(), lead.Name, lead.Email, lead.Phone, lead.SubmittedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id", "submitted_at"}).
			AddRow("0b6d4c1e-8f1a-4c57-9a43-6a3f1f0c2d11", returned))

	stored, err := repo.Create(context.Background(), lead)
	require.NoError(t, err)
	assert.Equal(t, "0b6d4c1e-8f1a-4c57-9a43-6a3f1f0c2d11", stored.ID, "id comes from RETURNING")
	assert.Equal(t, returned, stored.SubmittedAt)
	assert.Equal(t, lead.Email, stored.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryCreateError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)
	pgErr := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"leads_pkey\""}
	mock.ExpectQuery("INSERT INTO leads").WillReturnError(pgErr)

	_, err = repo.Create(context.Background(), sampleLead())
	require.Error(t, err)
	assert.Equal(t, pgErr.Message, storageDetail(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

type stubPutter struct {
	input *dynamodb.PutItemInput
	err   error
}

func (s *stubPutter) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	s.input = params
	if s.err != nil {
		return nil, s.err
	}
	return &dynamodb.PutItemOutput{}, nil
}

func TestDynamoRepositoryCreate(t *testing.T) {
	putter := &stubPutter{}
	repo, err := NewDynamoRepository(putter, "leads")
	require.NoError(t, err)

	stored, err := repo.Create(context.Background(), sampleLead())
	require.NoError(t, err)
	require.NotNil(t, putter.input)
	assert.Equal(t, "leads", *putter.input.TableName)
	assert.Equal(t, "attribute_not_exists(id)", *putter.input.ConditionExpression)

	var item dynamoLead
	require.NoError(t, attributevalue.UnmarshalMap(putter.input.Item, &item))
	assert.Equal(t, stored.ID, item.ID)
	assert.Equal(t, "maria@example.com", item.Email)
	assert.Equal(t, "2026-10-18T15:00:00Z", item.SubmittedAt)
}

func TestDynamoRepositoryCreateError(t *testing.T) {
	repo, err := NewDynamoRepository(&stubPutter{err: errors.New("ConditionalCheckFailedException")}, "leads")
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), sampleLead())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ConditionalCheckFailedException")
}

func TestNewDynamoRepositoryValidation(t *testing.T) {
	_, err := NewDynamoRepository(nil, "leads")
	assert.Error(t, err)
	_, err = NewDynamoRepository(&stubPutter{}, " ")
	assert.Error(t, err)
}
