package store

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
)

// Secrets path
// projects/{project}/secrets/webhook-signing-secret-{bankId}/versions/{version}

// webhookSecretStore keeps per-bank webhook signing secrets in Secret
// Manager. Rotation adds a version; the dispatcher always reads latest.
type webhookSecretStore struct {
	client    *secretmanager.Client
	projectID string
	prefix    string
}

func NewWebhookSecretStore(client *secretmanager.Client, projectID string) *webhookSecretStore {
	return &webhookSecretStore{
		client:    client,
		projectID: projectID,
		prefix:    "webhook-signing-secret",
	}
}

func (s *webhookSecretStore) secretID(bankID string) string {
	return fmt.Sprintf("%s-%s", s.prefix, bankID)
}

// SecretName is the resource name recorded on the bank integration row.
func (s *webhookSecretStore) SecretName(bankID string) string {
	return fmt.Sprintf("projects/%s/secrets/%s", s.projectID, s.secretID(bankID))
}

func (s *webhookSecretStore) ensureSecret(ctx context.Context, bankID string) error {
	name := s.SecretName(bankID)
	_, err := s.client.GetSecret(ctx, &secretmanagerpb.GetSecretRequest{Name: name})
	if status.Code(err) == codes.NotFound {
		_, err = s.client.CreateSecret(ctx, &secretmanagerpb.CreateSecretRequest{
			Parent:   fmt.Sprintf("projects/%s", s.projectID),
			SecretId: s.secretID(bankID),
			Secret: &secretmanagerpb.Secret{
				Replication: &secretmanagerpb.Replication{
					Replication: &secretmanagerpb.Replication_Automatic_{Automatic: &secretmanagerpb.Replication_Automatic{}},
				},
			},
		})
	}
	return err
}

func (s *webhookSecretStore) Store(ctx context.Context, bankID, secret string) error {
	if err := s.ensureSecret(ctx, bankID); err != nil {
		return errs.NewExternalServiceError("secretmanager", "failed to ensure webhook secret", false, err)
	}
	_, err := s.client.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent: s.SecretName(bankID),
		Payload: &secretmanagerpb.SecretPayload{
			Data: []byte(secret),
		},
	})
	if err != nil {
		return errs.NewExternalServiceError("secretmanager", "failed to store webhook secret", false, err)
	}
	return nil
}

func (s *webhookSecretStore) Get(ctx context.Context, bankID string) (string, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("%s/versions/latest", s.SecretName(bankID)),
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", errs.NewNotFoundError("webhook secret not found")
		}
		return "", errs.NewExternalServiceError("secretmanager", "failed to read webhook secret", false, err)
	}
	return string(res.Payload.Data), nil
}
