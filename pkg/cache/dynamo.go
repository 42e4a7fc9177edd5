package cache

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	zip "stillgrove.com/tcgshelf/pkg/zip"
)

const dynamoKeyAttribute = "key"

type dynamoItem struct {
	Key   string `dynamodbav:"key"`
	Value []byte `dynamodbav:"value"`
}

// DynamoCache keeps the catalog state in a DynamoDB table whose hash key is
// the string attribute "key"
type DynamoCache struct {
	svc       *dynamodb.DynamoDB
	tableName string
	ctx       context.Context
}

// NewDynamoCache connects to tableName with static credentials
func NewDynamoCache(ctx context.Context, region, id, secret, tableName string) (*DynamoCache, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(id, secret, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("Dynamo session - %w", err)
	}
	return &DynamoCache{
		svc:       dynamodb.New(sess),
		tableName: tableName,
		ctx:       ctx,
	}, nil
}

func (d *DynamoCache) Load(key string) ([]byte, error) {
	out, err := d.svc.GetItemWithContext(d.ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.tableName),
		ConsistentRead: aws.Bool(true),
		Key: map[string]*dynamodb.AttributeValue{
			dynamoKeyAttribute: {S: aws.String(key)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Dynamo load %s - %w", key, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var item dynamoItem
	if err = dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("Dynamo load %s - %w", key, err)
	}
	return zip.Unzip(item.Value)
}

// Store writes all updates in one TransactWriteItems call
func (d *DynamoCache) Store(updates map[string][]byte) error {
	items := make([]*dynamodb.TransactWriteItem, 0, len(updates))
	for k, v := range updates {
		payload, err := zip.Zip(v)
		if err != nil {
			return err
		}
		av, err := dynamodbattribute.MarshalMap(dynamoItem{Key: k, Value: payload})
		if err != nil {
			return fmt.Errorf("Dynamo marshal %s - %w", k, err)
		}
		items = append(items, &dynamodb.TransactWriteItem{
			Put: &dynamodb.Put{
				TableName: aws.String(d.tableName),
				Item:      av,
			},
		})
	}
	if len(items) == 0 {
		return nil
	}

	_, err := d.svc.TransactWriteItemsWithContext(d.ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		return fmt.Errorf("Dynamo store - %w", err)
	}
	return nil
}

// Close is a no-op, the AWS client holds no connections that need releasing
func (d *DynamoCache) Close() {}
