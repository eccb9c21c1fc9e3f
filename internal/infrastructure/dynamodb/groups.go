package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsv2dynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsv2types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-xray-sdk-go/xray"

	"course-platform/internal/domain"
)

type GroupRepository struct{ client *Client }

func NewGroupRepository(client *Client) *GroupRepository {
	return &GroupRepository{client: client}
}

type groupItem struct {
	ID          string              `dynamodbav:"ID"`
	Name        string              `dynamodbav:"Name"`
	Description string              `dynamodbav:"Description"`
	Active      bool                `dynamodbav:"Active"`
	Permissions []domain.Permission `dynamodbav:"Permissions"`
	CreatedAt   string              `dynamodbav:"CreatedAt"`
	UpdatedAt   string              `dynamodbav:"UpdatedAt"`
}

func (i groupItem) toDomain() domain.Group {
	return domain.Group{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Active:      i.Active,
		Permissions: i.Permissions,
		CreatedAt:   parseTime(i.CreatedAt),
		UpdatedAt:   parseTime(i.UpdatedAt),
	}
}

func (r *GroupRepository) Create(ctx context.Context, group domain.Group) error {
	item := map[string]any{
		"PK":          groupPK(group.ID),
		"SK":          metaSK(),
		"EntityType":  "GROUP",
		"ID":          group.ID,
		"Name":        group.Name,
		"Description": group.Description,
		"Active":      group.Active,
		"Permissions": group.Permissions,
		"CreatedAt":   formatTime(group.CreatedAt),
		"UpdatedAt":   formatTime(group.UpdatedAt),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	return xray.Capture(ctx, "DynamoDB.PutGroup", func(ctx context.Context) error {
		_, err := r.client.db.PutItem(ctx, &awsv2dynamodb.PutItemInput{
			TableName:           aws.String(r.client.tableName),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrConflict
		}
		return err
	})
}

func (r *GroupRepository) Update(ctx context.Context, group domain.Group) error {
	permissionsAV, err := attributevalue.Marshal(group.Permissions)
	if err != nil {
		return err
	}
	return xray.Capture(ctx, "DynamoDB.UpdateGroup", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: groupPK(group.ID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
			UpdateExpression: aws.String("SET #n = :n, Description = :d, Active = :a, Permissions = :p, UpdatedAt = :u"),
			ExpressionAttributeNames: map[string]string{
				"#n": "Name",
			},
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":n": &awsv2types.AttributeValueMemberS{Value: group.Name},
				":d": &awsv2types.AttributeValueMemberS{Value: group.Description},
				":a": &awsv2types.AttributeValueMemberBOOL{Value: group.Active},
				":p": permissionsAV,
				":u": &awsv2types.AttributeValueMemberS{Value: formatTime(group.UpdatedAt)},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

func (r *GroupRepository) GetByID(ctx context.Context, groupID string) (domain.Group, error) {
	var out *awsv2dynamodb.GetItemOutput
	err := xray.Capture(ctx, "DynamoDB.GetGroup", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.GetItem(ctx, &awsv2dynamodb.GetItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: groupPK(groupID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
		})
		return e
	})
	if err != nil {
		return domain.Group{}, err
	}
	if out.Item == nil {
		return domain.Group{}, domain.ErrNotFound
	}
	var raw groupItem
	if err := attributevalue.UnmarshalMap(out.Item, &raw); err != nil {
		return domain.Group{}, err
	}
	return raw.toDomain(), nil
}

// GetByIDs loads the groups one by one, skipping ids whose group no longer
// exists: a dangling membership reference just stops granting.
func (r *GroupRepository) GetByIDs(ctx context.Context, groupIDs []string) ([]domain.Group, error) {
	groups := make([]domain.Group, 0, len(groupIDs))
	for _, id := range groupIDs {
		group, err := r.GetByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (r *GroupRepository) List(ctx context.Context) ([]domain.Group, error) {
	var out *awsv2dynamodb.ScanOutput
	err := xray.Capture(ctx, "DynamoDB.ScanGroups", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.Scan(ctx, &awsv2dynamodb.ScanInput{
			TableName:        aws.String(r.client.tableName),
			FilterExpression: aws.String("EntityType = :t"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":t": &awsv2types.AttributeValueMemberS{Value: "GROUP"},
			},
		})
		return e
	})
	if err != nil {
		return nil, err
	}
	groups := make([]domain.Group, 0, len(out.Items))
	for _, item := range out.Items {
		var raw groupItem
		if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
			return nil, err
		}
		groups = append(groups, raw.toDomain())
	}
	return groups, nil
}

func (r *GroupRepository) Delete(ctx context.Context, groupID string) error {
	return xray.Capture(ctx, "DynamoDB.DeleteGroup", func(ctx context.Context) error {
		_, err := r.client.db.DeleteItem(ctx, &awsv2dynamodb.DeleteItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: groupPK(groupID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}
