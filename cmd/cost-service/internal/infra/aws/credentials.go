package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"go.uber.org/zap"
)

// stsAPI is the subset of the STS client the broker uses.
type stsAPI interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

// CredentialBroker exchanges a tenant's delegated IAM role for short-lived
// scoped credentials via STS AssumeRole.
//
// Single attempt, no internal backoff: transient failures are reported to the
// caller and retried on the next ingestion cycle.
type CredentialBroker struct {
	sts               stsAPI
	sessionNamePrefix string
	duration          time.Duration
	log               *zap.Logger
}

// BrokerConfig holds configuration for CredentialBroker.
type BrokerConfig struct {
	Region            string
	SessionNamePrefix string
	Duration          time.Duration
}

// NewCredentialBroker creates a broker backed by the default AWS config chain.
func NewCredentialBroker(ctx context.Context, cfg BrokerConfig, logger *zap.Logger) (*CredentialBroker, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newCredentialBroker(sts.NewFromConfig(awsCfg), cfg, logger), nil
}

func newCredentialBroker(client stsAPI, cfg BrokerConfig, logger *zap.Logger) *CredentialBroker {
	if cfg.SessionNamePrefix == "" {
		cfg.SessionNamePrefix = "CloudCostTrackerSession"
	}
	if cfg.Duration <= 0 {
		cfg.Duration = time.Hour
	}
	return &CredentialBroker{
		sts:               client,
		sessionNamePrefix: cfg.SessionNamePrefix,
		duration:          cfg.Duration,
		log:               logger,
	}
}

// Acquire implements domain.CredentialBroker.
func (b *CredentialBroker) Acquire(ctx context.Context, tenant *domain.Tenant) (*domain.ScopedCredential, error) {
	if !tenant.HasDelegation() {
		return nil, fmt.Errorf("%w: tenant %s", domain.ErrNoDelegationConfigured, tenant.ID)
	}

	out, err := b.sts.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(tenant.AWSRoleARN),
		RoleSessionName: aws.String(b.sessionNamePrefix + tenant.ID),
		DurationSeconds: aws.Int32(int32(b.duration.Seconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: assume role for tenant %s: %v",
			domain.ErrCredentialExchangeFailed, tenant.ID, err)
	}

	creds := out.Credentials
	if creds == nil || creds.AccessKeyId == nil || creds.SecretAccessKey == nil || creds.SessionToken == nil {
		return nil, fmt.Errorf("%w: empty credentials for tenant %s",
			domain.ErrCredentialExchangeFailed, tenant.ID)
	}

	scoped := &domain.ScopedCredential{
		AccessKeyID:     aws.ToString(creds.AccessKeyId),
		SecretAccessKey: aws.ToString(creds.SecretAccessKey),
		SessionToken:    aws.ToString(creds.SessionToken),
	}
	if creds.Expiration != nil {
		scoped.Expiration = *creds.Expiration
	}

	b.log.Debug("assumed role for tenant",
		zap.String("tenant_id", tenant.ID),
		zap.Time("expiration", scoped.Expiration),
	)
	return scoped, nil
}
