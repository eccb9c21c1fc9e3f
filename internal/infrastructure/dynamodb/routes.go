package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsv2dynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsv2types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-xray-sdk-go/xray"

	"course-platform/internal/domain"
)

// RouteRepository persists the route registry. (route, domain) maps onto the
// PK/SK pair, so uniqueness comes straight from the conditional put.
type RouteRepository struct{ client *Client }

func NewRouteRepository(client *Client) *RouteRepository {
	return &RouteRepository{client: client}
}

type routeItem struct {
	Route     string `dynamodbav:"Route"`
	Domain    string `dynamodbav:"Domain"`
	Active    bool   `dynamodbav:"Active"`
	Read      bool   `dynamodbav:"CanRead"`
	Create    bool   `dynamodbav:"CanCreate"`
	Replace   bool   `dynamodbav:"CanReplace"`
	Update    bool   `dynamodbav:"CanUpdate"`
	Delete    bool   `dynamodbav:"CanDelete"`
	CreatedAt string `dynamodbav:"CreatedAt"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

func (i routeItem) toDomain() domain.Route {
	return domain.Route{
		Route:     i.Route,
		Domain:    i.Domain,
		Active:    i.Active,
		Read:      i.Read,
		Create:    i.Create,
		Replace:   i.Replace,
		Update:    i.Update,
		Delete:    i.Delete,
		CreatedAt: parseTime(i.CreatedAt),
		UpdatedAt: parseTime(i.UpdatedAt),
	}
}

func (r *RouteRepository) Create(ctx context.Context, route domain.Route) error {
	item := map[string]any{
		"PK":         routePK(route.Route),
		"SK":         routeSK(route.Domain),
		"EntityType": "ROUTE",
		"Route":      route.Route,
		"Domain":     route.Domain,
		"Active":     route.Active,
		"CanRead":    route.Read,
		"CanCreate":  route.Create,
		"CanReplace": route.Replace,
		"CanUpdate":  route.Update,
		"CanDelete":  route.Delete,
		"CreatedAt":  formatTime(route.CreatedAt),
		"UpdatedAt":  formatTime(route.UpdatedAt),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	return xray.Capture(ctx, "DynamoDB.PutRoute", func(ctx context.Context) error {
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

func (r *RouteRepository) Update(ctx context.Context, route domain.Route) error {
	return xray.Capture(ctx, "DynamoDB.UpdateRoute", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: routePK(route.Route)},
				"SK": &awsv2types.AttributeValueMemberS{Value: routeSK(route.Domain)},
			},
			UpdateExpression: aws.String("SET Active = :a, CanRead = :r, CanCreate = :c, CanReplace = :rp, CanUpdate = :up, CanDelete = :d, UpdatedAt = :u"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":a":  &awsv2types.AttributeValueMemberBOOL{Value: route.Active},
				":r":  &awsv2types.AttributeValueMemberBOOL{Value: route.Read},
				":c":  &awsv2types.AttributeValueMemberBOOL{Value: route.Create},
				":rp": &awsv2types.AttributeValueMemberBOOL{Value: route.Replace},
				":up": &awsv2types.AttributeValueMemberBOOL{Value: route.Update},
				":d":  &awsv2types.AttributeValueMemberBOOL{Value: route.Delete},
				":u":  &awsv2types.AttributeValueMemberS{Value: formatTime(route.UpdatedAt)},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

func (r *RouteRepository) GetByRouteAndDomain(ctx context.Context, routeName, domainName string) (domain.Route, error) {
	var out *awsv2dynamodb.GetItemOutput
	err := xray.Capture(ctx, "DynamoDB.GetRoute", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.GetItem(ctx, &awsv2dynamodb.GetItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: routePK(routeName)},
				"SK": &awsv2types.AttributeValueMemberS{Value: routeSK(domainName)},
			},
		})
		return e
	})
	if err != nil {
		return domain.Route{}, err
	}
	if out.Item == nil {
		return domain.Route{}, domain.ErrNotFound
	}
	var raw routeItem
	if err := attributevalue.UnmarshalMap(out.Item, &raw); err != nil {
		return domain.Route{}, err
	}
	return raw.toDomain(), nil
}

func (r *RouteRepository) List(ctx context.Context) ([]domain.Route, error) {
	var out *awsv2dynamodb.ScanOutput
	err := xray.Capture(ctx, "DynamoDB.ScanRoutes", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.Scan(ctx, &awsv2dynamodb.ScanInput{
			TableName:        aws.String(r.client.tableName),
			FilterExpression: aws.String("EntityType = :t"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":t": &awsv2types.AttributeValueMemberS{Value: "ROUTE"},
			},
		})
		return e
	})
	if err != nil {
		return nil, err
	}
	routes := make([]domain.Route, 0, len(out.Items))
	for _, item := range out.Items {
		var raw routeItem
		if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
			return nil, err
		}
		routes = append(routes, raw.toDomain())
	}
	return routes, nil
}

func (r *RouteRepository) Delete(ctx context.Context, routeName, domainName string) error {
	return xray.Capture(ctx, "DynamoDB.DeleteRoute", func(ctx context.Context) error {
		_, err := r.client.db.DeleteItem(ctx, &awsv2dynamodb.DeleteItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: routePK(routeName)},
				"SK": &awsv2types.AttributeValueMemberS{Value: routeSK(domainName)},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}
