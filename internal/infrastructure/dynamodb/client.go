package dynamodb

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	awsv2dynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsv2types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	awsv2xray "github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
)

type Client struct {
	db        *awsv2dynamodb.Client
	tableName string
}

func NewClient(ctx context.Context, region, tableName string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	awsv2xray.AWSV2Instrumentor(&cfg.APIOptions)
	client := awsv2dynamodb.NewFromConfig(cfg)
	return &Client{db: client, tableName: tableName}, nil
}

func metaSK() string { return "META" }

func userPK(userID string) string { return "USER#" + userID }

func emailPK(email string) string { return "EMAIL#" + strings.ToLower(email) }

func recoveryCodePK(code string) string { return "RECOVERY#CODE#" + code }

// recoveryTokenPK hashes the token: recovery JWTs are too unwieldy to key on
// directly.
func recoveryTokenPK(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "RECOVERY#TOKEN#" + hex.EncodeToString(sum[:])
}

func groupPK(groupID string) string { return "GROUP#" + groupID }

func routePK(routeName string) string { return "ROUTE#" + routeName }

func routeSK(domainName string) string { return "DOMAIN#" + domainName }

func coursePK(courseID string) string { return "COURSE#" + courseID }

func lessonSK(lessonID string) string { return "LESSON#" + lessonID }

func isConditionalCheckFailure(err error) bool {
	var condErr *awsv2types.ConditionalCheckFailedException
	return errors.As(err, &condErr)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
