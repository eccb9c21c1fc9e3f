package dynamodb

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsv2dynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsv2types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-xray-sdk-go/xray"

	"course-platform/internal/domain"
)

type UserRepository struct{ client *Client }

func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

type userItem struct {
	ID                 string              `dynamodbav:"ID"`
	Name               string              `dynamodbav:"Name"`
	Email              string              `dynamodbav:"Email"`
	PasswordHash       string              `dynamodbav:"PasswordHash"`
	Active             bool                `dynamodbav:"Active"`
	Groups             []string            `dynamodbav:"Groups"`
	Permissions        []domain.Permission `dynamodbav:"Permissions"`
	RefreshToken       string              `dynamodbav:"RefreshToken"`
	RecoveryCode       string              `dynamodbav:"RecoveryCode"`
	RecoveryToken      string              `dynamodbav:"RecoveryToken"`
	RecoveryCodeExpiry string              `dynamodbav:"RecoveryCodeExpiry"`
	CoursesIDs         []string            `dynamodbav:"CoursesIDs"`
	Progress           []domain.Progress   `dynamodbav:"Progress"`
	CreatedAt          string              `dynamodbav:"CreatedAt"`
	UpdatedAt          string              `dynamodbav:"UpdatedAt"`
}

func (i userItem) toDomain() domain.User {
	return domain.User{
		ID:                 i.ID,
		Name:               i.Name,
		Email:              i.Email,
		PasswordHash:       i.PasswordHash,
		Active:             i.Active,
		Groups:             i.Groups,
		Permissions:        i.Permissions,
		RefreshToken:       i.RefreshToken,
		RecoveryCode:       i.RecoveryCode,
		RecoveryToken:      i.RecoveryToken,
		RecoveryCodeExpiry: parseTime(i.RecoveryCodeExpiry),
		CoursesIDs:         i.CoursesIDs,
		Progress:           i.Progress,
		CreatedAt:          parseTime(i.CreatedAt),
		UpdatedAt:          parseTime(i.UpdatedAt),
	}
}

// Create reserves the email first via a conditional put on the lookup item, so
// a duplicate signup fails before the user record exists.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	emailItem := map[string]awsv2types.AttributeValue{
		"PK":         &awsv2types.AttributeValueMemberS{Value: emailPK(user.Email)},
		"SK":         &awsv2types.AttributeValueMemberS{Value: metaSK()},
		"EntityType": &awsv2types.AttributeValueMemberS{Value: "EMAIL"},
		"UserID":     &awsv2types.AttributeValueMemberS{Value: user.ID},
	}
	err := xray.Capture(ctx, "DynamoDB.PutUserEmail", func(ctx context.Context) error {
		_, err := r.client.db.PutItem(ctx, &awsv2dynamodb.PutItemInput{
			TableName:           aws.String(r.client.tableName),
			Item:                emailItem,
			ConditionExpression: aws.String("attribute_not_exists(PK)"),
		})
		return err
	})
	if isConditionalCheckFailure(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return err
	}

	item := map[string]any{
		"PK":                 userPK(user.ID),
		"SK":                 metaSK(),
		"EntityType":         "USER",
		"ID":                 user.ID,
		"Name":               user.Name,
		"Email":              user.Email,
		"PasswordHash":       user.PasswordHash,
		"Active":             user.Active,
		"Groups":             user.Groups,
		"Permissions":        user.Permissions,
		"RefreshToken":       user.RefreshToken,
		"RecoveryCode":       user.RecoveryCode,
		"RecoveryToken":      user.RecoveryToken,
		"RecoveryCodeExpiry": formatTime(user.RecoveryCodeExpiry),
		"CoursesIDs":         user.CoursesIDs,
		"Progress":           user.Progress,
		"CreatedAt":          formatTime(user.CreatedAt),
		"UpdatedAt":          formatTime(user.UpdatedAt),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	return xray.Capture(ctx, "DynamoDB.PutUser", func(ctx context.Context) error {
		_, err := r.client.db.PutItem(ctx, &awsv2dynamodb.PutItemInput{
			TableName:           aws.String(r.client.tableName),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
		})
		return err
	})
}

// Update writes the profile fields. Email and the auth/recovery columns are
// owned by their dedicated operations and left untouched here.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	permissionsAV, err := attributevalue.Marshal(user.Permissions)
	if err != nil {
		return err
	}
	groupsAV, err := attributevalue.Marshal(user.Groups)
	if err != nil {
		return err
	}
	coursesAV, err := attributevalue.Marshal(user.CoursesIDs)
	if err != nil {
		return err
	}
	progressAV, err := attributevalue.Marshal(user.Progress)
	if err != nil {
		return err
	}
	return xray.Capture(ctx, "DynamoDB.UpdateUser", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: userPK(user.ID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
			UpdateExpression: aws.String("SET #n = :n, Active = :a, Groups = :g, Permissions = :p, CoursesIDs = :c, Progress = :pr, UpdatedAt = :u"),
			ExpressionAttributeNames: map[string]string{
				"#n": "Name",
			},
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":n":  &awsv2types.AttributeValueMemberS{Value: user.Name},
				":a":  &awsv2types.AttributeValueMemberBOOL{Value: user.Active},
				":g":  groupsAV,
				":p":  permissionsAV,
				":c":  coursesAV,
				":pr": progressAV,
				":u":  &awsv2types.AttributeValueMemberS{Value: formatTime(user.UpdatedAt)},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (domain.User, error) {
	var out *awsv2dynamodb.GetItemOutput
	err := xray.Capture(ctx, "DynamoDB.GetUser", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.GetItem(ctx, &awsv2dynamodb.GetItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: userPK(userID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
		})
		return e
	})
	if err != nil {
		return domain.User{}, err
	}
	if out.Item == nil {
		return domain.User{}, domain.ErrNotFound
	}
	var raw userItem
	if err := attributevalue.UnmarshalMap(out.Item, &raw); err != nil {
		return domain.User{}, err
	}
	return raw.toDomain(), nil
}

func (r *UserRepository) getLookupUserID(ctx context.Context, segment, pk string) (string, error) {
	var out *awsv2dynamodb.GetItemOutput
	err := xray.Capture(ctx, segment, func(ctx context.Context) error {
		var e error
		out, e = r.client.db.GetItem(ctx, &awsv2dynamodb.GetItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: pk},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
		})
		return e
	})
	if err != nil {
		return "", err
	}
	if out.Item == nil {
		return "", domain.ErrNotFound
	}
	raw := struct {
		UserID string `dynamodbav:"UserID"`
	}{}
	if err := attributevalue.UnmarshalMap(out.Item, &raw); err != nil {
		return "", err
	}
	return raw.UserID, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	userID, err := r.getLookupUserID(ctx, "DynamoDB.GetUserByEmail", emailPK(email))
	if err != nil {
		return domain.User{}, err
	}
	return r.GetByID(ctx, userID)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var out *awsv2dynamodb.ScanOutput
	err := xray.Capture(ctx, "DynamoDB.ScanUsers", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.Scan(ctx, &awsv2dynamodb.ScanInput{
			TableName:        aws.String(r.client.tableName),
			FilterExpression: aws.String("EntityType = :t"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":t": &awsv2types.AttributeValueMemberS{Value: "USER"},
			},
		})
		return e
	})
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(out.Items))
	for _, item := range out.Items {
		var raw userItem
		if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
			return nil, err
		}
		users = append(users, raw.toDomain())
	}
	return users, nil
}

// Delete is a soft delete: the record survives with Active=false.
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	return xray.Capture(ctx, "DynamoDB.DeactivateUser", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: userPK(userID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
			UpdateExpression: aws.String("SET Active = :a, UpdatedAt = :u"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":a": &awsv2types.AttributeValueMemberBOOL{Value: false},
				":u": &awsv2types.AttributeValueMemberS{Value: formatTime(time.Now().UTC())},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

func (r *UserRepository) deleteItem(ctx context.Context, segment, pk string) error {
	return xray.Capture(ctx, segment, func(ctx context.Context) error {
		_, err := r.client.db.DeleteItem(ctx, &awsv2dynamodb.DeleteItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: pk},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
		})
		return err
	})
}

func (r *UserRepository) DeletePermanent(ctx context.Context, userID string) error {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := r.clearRecoveryLookups(ctx, user); err != nil {
		return err
	}
	if err := r.deleteItem(ctx, "DynamoDB.DeleteUserEmail", emailPK(user.Email)); err != nil {
		return err
	}
	return r.deleteItem(ctx, "DynamoDB.DeleteUser", userPK(userID))
}

func (r *UserRepository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error {
	return xray.Capture(ctx, "DynamoDB.UpdateRefreshToken", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: userPK(userID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
			UpdateExpression: aws.String("SET RefreshToken = :t, UpdatedAt = :u"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":t": &awsv2types.AttributeValueMemberS{Value: refreshToken},
				":u": &awsv2types.AttributeValueMemberS{Value: formatTime(time.Now().UTC())},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

func (r *UserRepository) putLookup(ctx context.Context, segment, pk, userID string) error {
	return xray.Capture(ctx, segment, func(ctx context.Context) error {
		_, err := r.client.db.PutItem(ctx, &awsv2dynamodb.PutItemInput{
			TableName: aws.String(r.client.tableName),
			Item: map[string]awsv2types.AttributeValue{
				"PK":         &awsv2types.AttributeValueMemberS{Value: pk},
				"SK":         &awsv2types.AttributeValueMemberS{Value: metaSK()},
				"EntityType": &awsv2types.AttributeValueMemberS{Value: "RECOVERY"},
				"UserID":     &awsv2types.AttributeValueMemberS{Value: userID},
			},
		})
		return err
	})
}

func (r *UserRepository) clearRecoveryLookups(ctx context.Context, user domain.User) error {
	if user.RecoveryCode != "" {
		if err := r.deleteItem(ctx, "DynamoDB.DeleteRecoveryCode", recoveryCodePK(user.RecoveryCode)); err != nil {
			return err
		}
	}
	if user.RecoveryToken != "" {
		if err := r.deleteItem(ctx, "DynamoDB.DeleteRecoveryToken", recoveryTokenPK(user.RecoveryToken)); err != nil {
			return err
		}
	}
	return nil
}

// SetRecovery replaces any outstanding recovery state. A second recovery
// request simply overwrites the first.
func (r *UserRepository) SetRecovery(ctx context.Context, userID, code, token string, expiry time.Time) error {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := r.clearRecoveryLookups(ctx, user); err != nil {
		return err
	}
	if err := r.putLookup(ctx, "DynamoDB.PutRecoveryCode", recoveryCodePK(code), userID); err != nil {
		return err
	}
	if err := r.putLookup(ctx, "DynamoDB.PutRecoveryToken", recoveryTokenPK(token), userID); err != nil {
		return err
	}
	return xray.Capture(ctx, "DynamoDB.SetRecovery", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: userPK(userID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
			UpdateExpression: aws.String("SET RecoveryCode = :c, RecoveryToken = :t, RecoveryCodeExpiry = :e, UpdatedAt = :u"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":c": &awsv2types.AttributeValueMemberS{Value: code},
				":t": &awsv2types.AttributeValueMemberS{Value: token},
				":e": &awsv2types.AttributeValueMemberS{Value: formatTime(expiry)},
				":u": &awsv2types.AttributeValueMemberS{Value: formatTime(time.Now().UTC())},
			},
		})
		return err
	})
}

func (r *UserRepository) GetByRecoveryCode(ctx context.Context, code string) (domain.User, error) {
	userID, err := r.getLookupUserID(ctx, "DynamoDB.GetUserByRecoveryCode", recoveryCodePK(code))
	if err != nil {
		return domain.User{}, err
	}
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	// A stale lookup item must not resurrect consumed recovery state.
	if user.RecoveryCode != code {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) GetByRecoveryToken(ctx context.Context, token string) (domain.User, error) {
	userID, err := r.getLookupUserID(ctx, "DynamoDB.GetUserByRecoveryToken", recoveryTokenPK(token))
	if err != nil {
		return domain.User{}, err
	}
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if user.RecoveryToken != token {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) RecoveryCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := r.getLookupUserID(ctx, "DynamoDB.CheckRecoveryCode", recoveryCodePK(code))
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdatePassword persists the new hash and clears every piece of recovery
// state, both on the record and in the lookup items.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := r.clearRecoveryLookups(ctx, user); err != nil {
		return err
	}
	return xray.Capture(ctx, "DynamoDB.UpdatePassword", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: userPK(userID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
			UpdateExpression: aws.String("SET PasswordHash = :p, RecoveryCode = :empty, RecoveryToken = :empty, RecoveryCodeExpiry = :empty, UpdatedAt = :u"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":p":     &awsv2types.AttributeValueMemberS{Value: passwordHash},
				":empty": &awsv2types.AttributeValueMemberS{Value: ""},
				":u":     &awsv2types.AttributeValueMemberS{Value: formatTime(time.Now().UTC())},
			},
		})
		return err
	})
}
