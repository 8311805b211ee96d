// Package dynamo stores notes in a single DynamoDB table keyed by note id.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/A-W-S-G-I-T/notes-api/internal/model"
	"github.com/A-W-S-G-I-T/notes-api/internal/store"
)

// DefaultTable is the table used when none is configured.
const DefaultTable = "Notes"

// API is the subset of *dynamodb.Client methods used by Store.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store implements store.Store on DynamoDB.
type Store struct {
	client    API
	tableName string
}

// NewStore creates a Store for the given table.
func NewStore(client API, tableName string) *Store {
	if tableName == "" {
		tableName = DefaultTable
	}
	return &Store{client: client, tableName: tableName}
}

func (s *Store) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		model.FieldID: &types.AttributeValueMemberS{Value: id},
	}
}

func (s *Store) Get(ctx context.Context, id string) (model.Note, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            s.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return model.Note{}, fmt.Errorf("failed to get note from DynamoDB: %w", err)
	}
	if out.Item == nil {
		return model.Note{}, store.ErrNotFound
	}

	var note model.Note
	if err := attributevalue.UnmarshalMap(out.Item, &note); err != nil {
		return model.Note{}, fmt.Errorf("failed to unmarshal note: %w", err)
	}
	return note, nil
}

// ScanByOwner drains every scan page, so the result is the complete matching set.
func (s *Store) ScanByOwner(ctx context.Context, owner string) ([]model.Note, error) {
	// "owner" is a DynamoDB reserved word, so it needs an alias.
	p := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:        aws.String(s.tableName),
		FilterExpression: aws.String("#o = :u"),
		ExpressionAttributeNames: map[string]string{
			"#o": model.FieldOwner,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: owner},
		},
	})

	notes := make([]model.Note, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notes: %w", err)
		}

		var items []model.Note
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notes: %w", err)
		}
		notes = append(notes, items...)
	}
	return notes, nil
}

func (s *Store) Put(ctx context.Context, note model.Note) error {
	item, err := attributevalue.MarshalMap(note)
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put note to DynamoDB: %w", err)
	}
	return nil
}

// UpdateFields sets only the named attributes. The write is conditional on the
// item existing so a concurrent delete cannot leave a partial item behind.
// An empty field set has no update expression, so it only checks existence.
func (s *Store) UpdateFields(ctx context.Context, id string, fields store.Fields) error {
	if err := store.CheckMutable(fields); err != nil {
		return err
	}
	if len(fields) == 0 {
		_, err := s.Get(ctx, id)
		return err
	}

	expr, names, values := updateExpression(fields)
	names["#id"] = model.FieldID

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       s.key(id),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.key(id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// updateExpression builds "SET #f0 = :v0, #f1 = :v1" over the fields in name order.
func updateExpression(fields store.Fields) (string, map[string]string, map[string]types.AttributeValue) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := make(map[string]string, len(keys)+1)
	values := make(map[string]types.AttributeValue, len(keys))
	clauses := make([]string, 0, len(keys))
	for i, k := range keys {
		n := "#f" + strconv.Itoa(i)
		v := ":v" + strconv.Itoa(i)
		names[n] = k
		values[v] = &types.AttributeValueMemberS{Value: fields[k]}
		clauses = append(clauses, n+" = "+v)
	}
	return "SET " + strings.Join(clauses, ", "), names, values
}
