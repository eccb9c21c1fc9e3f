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

type CourseRepository struct{ client *Client }

type LessonRepository struct{ client *Client }

func NewCourseRepository(client *Client) *CourseRepository {
	return &CourseRepository{client: client}
}

func NewLessonRepository(client *Client) *LessonRepository {
	return &LessonRepository{client: client}
}

type courseItem struct {
	ID          string `dynamodbav:"ID"`
	Name        string `dynamodbav:"Name"`
	Description string `dynamodbav:"Description"`
	Active      bool   `dynamodbav:"Active"`
	CreatedAt   string `dynamodbav:"CreatedAt"`
	UpdatedAt   string `dynamodbav:"UpdatedAt"`
}

func (i courseItem) toDomain() domain.Course {
	return domain.Course{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Active:      i.Active,
		CreatedAt:   parseTime(i.CreatedAt),
		UpdatedAt:   parseTime(i.UpdatedAt),
	}
}

func (r *CourseRepository) Create(ctx context.Context, course domain.Course) error {
	item := map[string]any{
		"PK":          coursePK(course.ID),
		"SK":          metaSK(),
		"EntityType":  "COURSE",
		"ID":          course.ID,
		"Name":        course.Name,
		"Description": course.Description,
		"Active":      course.Active,
		"CreatedAt":   formatTime(course.CreatedAt),
		"UpdatedAt":   formatTime(course.UpdatedAt),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	return xray.Capture(ctx, "DynamoDB.PutCourse", func(ctx context.Context) error {
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

func (r *CourseRepository) Update(ctx context.Context, course domain.Course) error {
	return xray.Capture(ctx, "DynamoDB.UpdateCourse", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: coursePK(course.ID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
			UpdateExpression: aws.String("SET #n = :n, Description = :d, Active = :a, UpdatedAt = :u"),
			ExpressionAttributeNames: map[string]string{
				"#n": "Name",
			},
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":n": &awsv2types.AttributeValueMemberS{Value: course.Name},
				":d": &awsv2types.AttributeValueMemberS{Value: course.Description},
				":a": &awsv2types.AttributeValueMemberBOOL{Value: course.Active},
				":u": &awsv2types.AttributeValueMemberS{Value: formatTime(course.UpdatedAt)},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

func (r *CourseRepository) GetByID(ctx context.Context, courseID string) (domain.Course, error) {
	var out *awsv2dynamodb.GetItemOutput
	err := xray.Capture(ctx, "DynamoDB.GetCourse", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.GetItem(ctx, &awsv2dynamodb.GetItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: coursePK(courseID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: metaSK()},
			},
		})
		return e
	})
	if err != nil {
		return domain.Course{}, err
	}
	if out.Item == nil {
		return domain.Course{}, domain.ErrNotFound
	}
	var raw courseItem
	if err := attributevalue.UnmarshalMap(out.Item, &raw); err != nil {
		return domain.Course{}, err
	}
	return raw.toDomain(), nil
}

func (r *CourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	var out *awsv2dynamodb.ScanOutput
	err := xray.Capture(ctx, "DynamoDB.ScanCourses", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.Scan(ctx, &awsv2dynamodb.ScanInput{
			TableName:        aws.String(r.client.tableName),
			FilterExpression: aws.String("EntityType = :t"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":t": &awsv2types.AttributeValueMemberS{Value: "COURSE"},
			},
		})
		return e
	})
	if err != nil {
		return nil, err
	}
	courses := make([]domain.Course, 0, len(out.Items))
	for _, item := range out.Items {
		var raw courseItem
		if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
			return nil, err
		}
		courses = append(courses, raw.toDomain())
	}
	return courses, nil
}

func (r *CourseRepository) Delete(ctx context.Context, courseID string) error {
	return xray.Capture(ctx, "DynamoDB.DeleteCourse", func(ctx context.Context) error {
		_, err := r.client.db.DeleteItem(ctx, &awsv2dynamodb.DeleteItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: coursePK(courseID)},
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

type lessonItem struct {
	ID        string `dynamodbav:"ID"`
	Name      string `dynamodbav:"Name"`
	Content   string `dynamodbav:"Content"`
	VideoURL  string `dynamodbav:"VideoURL"`
	Active    bool   `dynamodbav:"Active"`
	CreatedAt string `dynamodbav:"CreatedAt"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

func (i lessonItem) toDomain(courseID string) domain.Lesson {
	return domain.Lesson{
		CourseID:  courseID,
		ID:        i.ID,
		Name:      i.Name,
		Content:   i.Content,
		VideoURL:  i.VideoURL,
		Active:    i.Active,
		CreatedAt: parseTime(i.CreatedAt),
		UpdatedAt: parseTime(i.UpdatedAt),
	}
}

func (r *LessonRepository) Create(ctx context.Context, lesson domain.Lesson) error {
	item := map[string]any{
		"PK":         coursePK(lesson.CourseID),
		"SK":         lessonSK(lesson.ID),
		"EntityType": "LESSON",
		"ID":         lesson.ID,
		"Name":       lesson.Name,
		"Content":    lesson.Content,
		"VideoURL":   lesson.VideoURL,
		"Active":     lesson.Active,
		"CreatedAt":  formatTime(lesson.CreatedAt),
		"UpdatedAt":  formatTime(lesson.UpdatedAt),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	return xray.Capture(ctx, "DynamoDB.PutLesson", func(ctx context.Context) error {
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

func (r *LessonRepository) Update(ctx context.Context, lesson domain.Lesson) error {
	return xray.Capture(ctx, "DynamoDB.UpdateLesson", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: coursePK(lesson.CourseID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: lessonSK(lesson.ID)},
			},
			UpdateExpression: aws.String("SET #n = :n, Content = :c, VideoURL = :v, Active = :a, UpdatedAt = :u"),
			ExpressionAttributeNames: map[string]string{
				"#n": "Name",
			},
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":n": &awsv2types.AttributeValueMemberS{Value: lesson.Name},
				":c": &awsv2types.AttributeValueMemberS{Value: lesson.Content},
				":v": &awsv2types.AttributeValueMemberS{Value: lesson.VideoURL},
				":a": &awsv2types.AttributeValueMemberBOOL{Value: lesson.Active},
				":u": &awsv2types.AttributeValueMemberS{Value: formatTime(lesson.UpdatedAt)},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

func (r *LessonRepository) GetByID(ctx context.Context, courseID, lessonID string) (domain.Lesson, error) {
	var out *awsv2dynamodb.GetItemOutput
	err := xray.Capture(ctx, "DynamoDB.GetLesson", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.GetItem(ctx, &awsv2dynamodb.GetItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: coursePK(courseID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: lessonSK(lessonID)},
			},
		})
		return e
	})
	if err != nil {
		return domain.Lesson{}, err
	}
	if out.Item == nil {
		return domain.Lesson{}, domain.ErrNotFound
	}
	var raw lessonItem
	if err := attributevalue.UnmarshalMap(out.Item, &raw); err != nil {
		return domain.Lesson{}, err
	}
	return raw.toDomain(courseID), nil
}

func (r *LessonRepository) ListByCourseID(ctx context.Context, courseID string) ([]domain.Lesson, error) {
	var out *awsv2dynamodb.QueryOutput
	err := xray.Capture(ctx, "DynamoDB.QueryLessons", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.Query(ctx, &awsv2dynamodb.QueryInput{
			TableName:              aws.String(r.client.tableName),
			KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":pk": &awsv2types.AttributeValueMemberS{Value: coursePK(courseID)},
				":sk": &awsv2types.AttributeValueMemberS{Value: "LESSON#"},
			},
		})
		return e
	})
	if err != nil {
		return nil, err
	}
	lessons := make([]domain.Lesson, 0, len(out.Items))
	for _, item := range out.Items {
		var raw lessonItem
		if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
			return nil, err
		}
		lessons = append(lessons, raw.toDomain(courseID))
	}
	return lessons, nil
}

func (r *LessonRepository) Delete(ctx context.Context, courseID, lessonID string) error {
	return xray.Capture(ctx, "DynamoDB.DeleteLesson", func(ctx context.Context) error {
		_, err := r.client.db.DeleteItem(ctx, &awsv2dynamodb.DeleteItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": &awsv2types.AttributeValueMemberS{Value: coursePK(courseID)},
				"SK": &awsv2types.AttributeValueMemberS{Value: lessonSK(lessonID)},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}
