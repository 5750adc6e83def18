package aws_handler

import (
	"finance/src/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
)

type AWSHandler struct {
	SecretManager *SecretManager
}

// NewAWSHandler opens a session for the configured region. Credentials come
// from the default provider chain. Endpoint overrides the service URL, which
// is only useful against local emulators.
func NewAWSHandler(cfg config.AWSConfig) (*AWSHandler, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.MaxRetries > 0 {
		awsCfg = awsCfg.WithMaxRetries(cfg.MaxRetries)
	}
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, err
	}

	return &AWSHandler{
		SecretManager: NewSecretManager(secretsmanager.New(sess)),
	}, nil
}
