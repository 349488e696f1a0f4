package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/felipeboubee/agro-marketplace-sub001/infra/cloudrun"
	"github.com/felipeboubee/agro-marketplace-sub001/infra/docker"
	"github.com/felipeboubee/agro-marketplace-sub001/infra/firestore"
	"github.com/felipeboubee/agro-marketplace-sub001/infra/identity"
	"github.com/felipeboubee/agro-marketplace-sub001/infra/kms"
	"github.com/felipeboubee/agro-marketplace-sub001/infra/provider"
	"github.com/felipeboubee/agro-marketplace-sub001/infra/secret"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity service to allow using firebase
		ident, err := identity.SetupIdentity(ctx)
		if err != nil {
			return err
		}

		// enable firestore and create a database for the project
		err = firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// KMS key that encrypts bank API secrets at rest
		_, err = kms.SetupKMS(ctx, prov)
		if err != nil {
			return err
		}
		keyName, err := kms.CreateKey(ctx, prov, "marketplace", "bank-credentials")
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx)
		if err != nil {
			return err
		}

		apiSA, err := cloudrun.SetupCloudRun(ctx, prov, keyName, ident, repo)
		if err != nil {
			return err
		}

		// webhook signing secrets are created at runtime, so the service
		// account needs Secret Manager access rather than provisioned secrets
		_, err = secret.SetupSecretManager(ctx, prov, apiSA)
		if err != nil {
			return err
		}

		return nil
	})
}
