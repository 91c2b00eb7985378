// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package secrets encrypts values before they're written to storage. OAuth
// credentials for the banking API are never persisted in plaintext.
package secrets

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sweep-io/sweep/pkg/util"

	"github.com/hashicorp/vault/api"
	"gocloud.dev/secrets"
	"gocloud.dev/secrets/gcpkms"
	"gocloud.dev/secrets/hashivault"
	"gocloud.dev/secrets/localsecrets"
)

// devKey keeps local development working without provisioning KMS or Vault.
// Deployments set SECRETS_LOCAL_BASE64_KEY or a real cloud provider.
var devKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("1"), 32))

// StringKeeper encrypts and decrypts strings with an underlying
// *secrets.Keeper. Ciphertext is carried as base64.StdEncoding text so
// values fit in a database column.
type StringKeeper struct {
	keeper  *secrets.Keeper
	timeout time.Duration
}

func NewStringKeeper(keeper *secrets.Keeper, timeout time.Duration) *StringKeeper {
	return &StringKeeper{
		keeper:  keeper,
		timeout: timeout,
	}
}

func (k *StringKeeper) Close() error {
	if k == nil {
		return nil
	}
	return k.keeper.Close()
}

// EncryptString encrypts in and returns the ciphertext base64 encoded.
func (k *StringKeeper) EncryptString(in string) (string, error) {
	if k == nil {
		return "", errors.New("nil StringKeeper")
	}
	ctx, cancelFn := context.WithTimeout(context.Background(), k.timeout)
	defer cancelFn()

	bs, err := k.keeper.Encrypt(ctx, []byte(in))
	if err != nil {
		return "", fmt.Errorf("encrypt: %v", err)
	}
	return base64.StdEncoding.EncodeToString(bs), nil
}

// DecryptString reads base64 encoded ciphertext and returns the plaintext.
func (k *StringKeeper) DecryptString(in string) (string, error) {
	if k == nil {
		return "", errors.New("nil StringKeeper")
	}
	ctx, cancelFn := context.WithTimeout(context.Background(), k.timeout)
	defer cancelFn()

	bs, err := base64.StdEncoding.DecodeString(in)
	if err != nil {
		return "", fmt.Errorf("decrypt: %v", err)
	}
	bs, err = k.keeper.Decrypt(ctx, bs)
	if err != nil {
		return "", fmt.Errorf("decrypt: %v", err)
	}
	return string(bs), nil
}

// OpenSecretKeeper opens a Go CDK secrets.Keeper for the configured cloud
// provider. See https://gocloud.dev/ref/secrets/ for provider details.
func OpenSecretKeeper(ctx context.Context, path, cloudProvider string) (*secrets.Keeper, error) {
	switch strings.ToLower(cloudProvider) {
	case "", "local":
		return OpenLocal(os.Getenv("SECRETS_LOCAL_BASE64_KEY"))
	case "gcp":
		return openGCPKMS(ctx)
	case "vault":
		return openVault(ctx, path)
	}
	return nil, fmt.Errorf("unknown secrets cloudProvider=%s", cloudProvider)
}

// OpenLocal returns a Keeper which encrypts with base64Key, a base64 encoded
// 32 byte key. An empty base64Key falls back to a well known development key.
func OpenLocal(base64Key string) (*secrets.Keeper, error) {
	key, err := localsecrets.Base64Key(util.Or(base64Key, devKey))
	if err != nil {
		return nil, fmt.Errorf("problem reading SECRETS_LOCAL_BASE64_KEY: %v", err)
	}
	return localsecrets.NewKeeper(key), nil
}

// openGCPKMS dials Google Cloud KMS. SECRETS_GCP_KEY_RESOURCE_ID names the
// key to use, in the form:
//  projects/PROJECT/locations/LOCATION/keyRings/RING/cryptoKeys/KEY
//
// See https://cloud.google.com/kms/docs/object-hierarchy#key
func openGCPKMS(ctx context.Context) (*secrets.Keeper, error) {
	ctx, cancelFn := context.WithTimeout(ctx, 10*time.Second)
	defer cancelFn()

	client, done, err := gcpkms.Dial(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer done()

	return gcpkms.OpenKeeper(client, os.Getenv("SECRETS_GCP_KEY_RESOURCE_ID"), nil), nil
}

// openVault dials a Hashicorp Vault instance from VAULT_SERVER_URL and
// VAULT_SERVER_TOKEN and keeps values under path.
func openVault(ctx context.Context, path string) (*secrets.Keeper, error) {
	client, err := hashivault.Dial(ctx, &hashivault.Config{
		Token: os.Getenv("VAULT_SERVER_TOKEN"),
		APIConfig: api.Config{
			Address: util.Or(os.Getenv("VAULT_SERVER_URL"), "http://127.0.0.1:8200"),
		},
	})
	if err != nil {
		return nil, err
	}
	return hashivault.OpenKeeper(client, path, nil), nil
}
