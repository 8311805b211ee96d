package crypto

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/kms"
)

// fakeKMSClient reverses the plaintext bytes and checks the key id.
type fakeKMSClient struct {
	keyID string
	err   error
}

func reverse(b []byte) []byte {
	out := bytes.Clone(b)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (f *fakeKMSClient) Encrypt(_ context.Context, in *kms.EncryptInput, _ ...func(*kms.Options)) (*kms.EncryptOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if *in.KeyId != f.keyID {
		return nil, errors.New("unknown key")
	}
	if in.EncryptionContext["purpose"] != "note-text" {
		return nil, errors.New("missing encryption context")
	}
	return &kms.EncryptOutput{CiphertextBlob: reverse(in.Plaintext)}, nil
}

func (f *fakeKMSClient) Decrypt(_ context.Context, in *kms.DecryptInput, _ ...func(*kms.Options)) (*kms.DecryptOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if in.EncryptionContext["purpose"] != "note-text" {
		return nil, errors.New("InvalidCiphertextException")
	}
	return &kms.DecryptOutput{Plaintext: reverse(in.CiphertextBlob)}, nil
}

func TestKMSService_RoundTrip(t *testing.T) {
	svc := NewKMSService(&fakeKMSClient{keyID: "alias/notes-text-key"}, "alias/notes-text-key")
	ctx := context.Background()

	ciphertext, err := svc.Encrypt(ctx, "hello")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if ciphertext == "hello" {
		t.Fatal("Ciphertext should differ from plaintext")
	}
	if _, err := base64.StdEncoding.DecodeString(ciphertext); err != nil {
		t.Errorf("Ciphertext should be base64: %v", err)
	}

	plaintext, err := svc.Decrypt(ctx, ciphertext)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if plaintext != "hello" {
		t.Errorf("Expected %q, got %q", "hello", plaintext)
	}
}

func TestKMSService_Decrypt_InvalidBase64(t *testing.T) {
	svc := NewKMSService(&fakeKMSClient{keyID: "k"}, "k")

	if _, err := svc.Decrypt(context.Background(), "not base64!"); err == nil {
		t.Error("Expected error for invalid base64")
	}
}

func TestKMSService_ClientError(t *testing.T) {
	svc := NewKMSService(&fakeKMSClient{keyID: "k", err: errors.New("access denied")}, "k")

	if _, err := svc.Encrypt(context.Background(), "x"); err == nil {
		t.Error("Expected encrypt error")
	}
}

func TestMockEncryptor_RoundTrip(t *testing.T) {
	m := NewMockEncryptor()
	ctx := context.Background()

	c, _ := m.Encrypt(ctx, "secret")
	if c != "mock:secret" {
		t.Errorf("Unexpected ciphertext %q", c)
	}
	p, _ := m.Decrypt(ctx, c)
	if p != "secret" {
		t.Errorf("Unexpected plaintext %q", p)
	}
}
