package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const costMetric = "UnblendedCost"

// costExplorerAPI is the subset of the Cost Explorer client the source uses.
type costExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// CostExplorerSource fetches cost-and-usage data from AWS Cost Explorer and
// normalizes the nested response (time buckets → groups → metrics) into flat
// domain records. All provider-specific deserialization lives here.
type CostExplorerSource struct {
	region string
	// newClient builds a client scoped to the tenant's short-lived
	// credentials. Overridable in tests.
	newClient func(cred *domain.ScopedCredential) costExplorerAPI
	log       *zap.Logger
}

// NewCostExplorerSource creates a Cost Explorer backed cost source.
func NewCostExplorerSource(region string, logger *zap.Logger) *CostExplorerSource {
	s := &CostExplorerSource{
		region: region,
		log:    logger,
	}
	s.newClient = s.defaultClient
	return s
}

func (s *CostExplorerSource) defaultClient(cred *domain.ScopedCredential) costExplorerAPI {
	cfg := aws.Config{
		Region: s.region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cred.AccessKeyID, cred.SecretAccessKey, cred.SessionToken,
		),
	}
	return costexplorer.NewFromConfig(cfg)
}

// FetchUsage implements domain.CostSource.
//
// Requests daily granularity grouped by SERVICE, REGION and USAGE_TYPE and
// follows pagination until exhausted. A single unparseable amount fails the
// whole call: partial results risk silent under-reporting.
func (s *CostExplorerSource) FetchUsage(ctx context.Context, cred *domain.ScopedCredential, start, end time.Time) ([]domain.NormalizedCostRecord, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: start %s after end %s", domain.ErrInvalidDateRange,
			start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	}

	client := s.newClient(cred)

	var records []domain.NormalizedCostRecord
	var nextToken *string
	for {
		out, err := client.GetCostAndUsage(ctx, &costexplorer.GetCostAndUsageInput{
			TimePeriod: &cetypes.DateInterval{
				Start: aws.String(start.Format(domain.DateLayout)),
				End:   aws.String(end.Format(domain.DateLayout)),
			},
			Granularity: cetypes.GranularityDaily,
			Metrics:     []string{costMetric},
			GroupBy: []cetypes.GroupDefinition{
				{Type: cetypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
				{Type: cetypes.GroupDefinitionTypeDimension, Key: aws.String("REGION")},
				{Type: cetypes.GroupDefinitionTypeDimension, Key: aws.String("USAGE_TYPE")},
			},
			NextPageToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: get cost and usage: %v", domain.ErrSourceUnavailable, err)
		}

		page, err := flattenResults(out.ResultsByTime)
		if err != nil {
			return nil, err
		}
		records = append(records, page...)

		if out.NextPageToken == nil || *out.NextPageToken == "" {
			break
		}
		nextToken = out.NextPageToken
	}

	s.log.Debug("fetched usage",
		zap.String("start", start.Format(domain.DateLayout)),
		zap.String("end", end.Format(domain.DateLayout)),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// flattenResults turns the provider's time-bucketed, nested-group response
// into one normalized record per (time bucket × group).
func flattenResults(results []cetypes.ResultByTime) ([]domain.NormalizedCostRecord, error) {
	var records []domain.NormalizedCostRecord
	for _, bucket := range results {
		if bucket.TimePeriod == nil || bucket.TimePeriod.Start == nil {
			return nil, fmt.Errorf("%w: result bucket missing time period", domain.ErrMalformedUsageData)
		}
		bucketStart, err := time.ParseInLocation(domain.DateLayout, aws.ToString(bucket.TimePeriod.Start), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: bad bucket start %q", domain.ErrMalformedUsageData,
				aws.ToString(bucket.TimePeriod.Start))
		}

		for _, group := range bucket.Groups {
			if len(group.Keys) < 3 {
				return nil, fmt.Errorf("%w: group has %d keys, want 3", domain.ErrMalformedUsageData, len(group.Keys))
			}
			metric, ok := group.Metrics[costMetric]
			if !ok || metric.Amount == nil {
				return nil, fmt.Errorf("%w: group missing %s metric", domain.ErrMalformedUsageData, costMetric)
			}
			amount, err := decimal.NewFromString(aws.ToString(metric.Amount))
			if err != nil {
				return nil, fmt.Errorf("%w: non-numeric amount %q", domain.ErrMalformedUsageData,
					aws.ToString(metric.Amount))
			}

			records = append(records, domain.NormalizedCostRecord{
				ServiceName: group.Keys[0],
				Region:      group.Keys[1],
				UsageType:   group.Keys[2],
				Cost:        amount,
				PeriodStart: bucketStart,
				PeriodEnd:   bucketStart.AddDate(0, 0, 1), // daily granularity
			})
		}
	}
	return records, nil
}
