package records

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// dynamoAPI is the subset of the DynamoDB client the repo uses.
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoRepo implements Repo using DynamoDB. Items carry the schema
// {filename S (key), Labels L of M{Name S, Confidence N}, timestamp S, branch S}.
type DynamoRepo struct {
	Client dynamoAPI
	Table  string
}

// NewDynamoRepo constructs a DynamoDB-backed repo.
func NewDynamoRepo(client *dynamodb.Client, table string) (*DynamoRepo, error) {
	if table == "" {
		return nil, fmt.Errorf("dynamodb table is required")
	}
	return &DynamoRepo{Client: client, Table: table}, nil
}

// Put writes the record as a single item. PutItem replaces any existing item
// with the same filename.
func (r *DynamoRepo) Put(ctx context.Context, rec AnalysisRecord) error {
	labelList := make([]ddbtypes.AttributeValue, 0, len(rec.Labels))
	for _, label := range rec.Labels {
		labelList = append(labelList, &ddbtypes.AttributeValueMemberM{
			Value: map[string]ddbtypes.AttributeValue{
				"Name":       &ddbtypes.AttributeValueMemberS{Value: label.Name},
				"Confidence": &ddbtypes.AttributeValueMemberN{Value: label.Confidence},
			},
		})
	}

	_, err := r.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.Table),
		Item: map[string]ddbtypes.AttributeValue{
			"filename":  &ddbtypes.AttributeValueMemberS{Value: rec.Filename},
			"Labels":    &ddbtypes.AttributeValueMemberL{Value: labelList},
			"timestamp": &ddbtypes.AttributeValueMemberS{Value: rec.Timestamp},
			"branch":    &ddbtypes.AttributeValueMemberS{Value: rec.Branch},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb put item table=%s filename=%s: %w", r.Table, rec.Filename, err)
	}
	return nil
}

// GetByFilename fetches one item by its key.
func (r *DynamoRepo) GetByFilename(ctx context.Context, filename string) (AnalysisRecord, error) {
	out, err := r.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.Table),
		Key: map[string]ddbtypes.AttributeValue{
			"filename": &ddbtypes.AttributeValueMemberS{Value: filename},
		},
	})
	if err != nil {
		return AnalysisRecord{}, fmt.Errorf("dynamodb get item table=%s filename=%s: %w", r.Table, filename, err)
	}
	if len(out.Item) == 0 {
		return AnalysisRecord{}, ErrNotFound
	}

	rec := AnalysisRecord{Filename: filename}
	rec.Timestamp = stringAttr(out.Item["timestamp"])
	rec.Branch = stringAttr(out.Item["branch"])

	if list, ok := out.Item["Labels"].(*ddbtypes.AttributeValueMemberL); ok {
		for _, item := range list.Value {
			m, ok := item.(*ddbtypes.AttributeValueMemberM)
			if !ok {
				continue
			}
			label := Label{Name: stringAttr(m.Value["Name"])}
			if n, ok := m.Value["Confidence"].(*ddbtypes.AttributeValueMemberN); ok {
				label.Confidence = n.Value
			}
			rec.Labels = append(rec.Labels, label)
		}
	}

	return rec, nil
}

func stringAttr(av ddbtypes.AttributeValue) string {
	if s, ok := av.(*ddbtypes.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

var _ Repo = (*DynamoRepo)(nil)
