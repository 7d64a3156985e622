package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aura/internal/crypto"
	"aura/internal/database"
	"aura/internal/models"
)

// ErrCredentialNotFound is returned when a user has no stored credential for
// a provider. Callers treat it as "integration not connected", not a failure.
var ErrCredentialNotFound = fmt.Errorf("credential not found")

// CredentialService stores per-user provider secrets encrypted in MongoDB.
// One document per (user, provider); storing again replaces the payload.
type CredentialService struct {
	mongoDB    *database.MongoDB
	encryption *crypto.EncryptionService
}

// NewCredentialService creates a credential vault backed by MongoDB
func NewCredentialService(mongoDB *database.MongoDB, encryption *crypto.EncryptionService) *CredentialService {
	return &CredentialService{
		mongoDB:    mongoDB,
		encryption: encryption,
	}
}

func (s *CredentialService) collection() *mongo.Collection {
	return s.mongoDB.Collection(database.CollectionCredentials)
}

// Store encrypts a provider payload and upserts it under (userID, provider)
func (s *CredentialService) Store(ctx context.Context, userID, provider string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize credential data: %w", err)
	}

	encrypted, err := s.encryption.Encrypt(userID, data)
	if err != nil {
		return fmt.Errorf("failed to encrypt credential data: %w", err)
	}

	now := time.Now()
	filter := bson.M{"userId": userID, "provider": provider}
	update := bson.M{
		"$set": bson.M{
			"encryptedData": encrypted,
			"updatedAt":     now,
		},
		"$setOnInsert": bson.M{
			"userId":    userID,
			"provider":  provider,
			"createdAt": now,
		},
	}

	_, err = s.collection().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	log.Printf("🔐 [CREDENTIAL] Stored %s credential for user %s", provider, userID)
	return nil
}

// Get decrypts a user's credential for a provider into out
func (s *CredentialService) Get(ctx context.Context, userID, provider string, out interface{}) error {
	var credential models.Credential
	err := s.collection().FindOne(ctx, bson.M{"userId": userID, "provider": provider}).Decode(&credential)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrCredentialNotFound
		}
		return fmt.Errorf("failed to load credential: %w", err)
	}

	data, err := s.encryption.Decrypt(userID, credential.EncryptedData)
	if err != nil {
		return fmt.Errorf("failed to decrypt credential data: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse credential data: %w", err)
	}
	return nil
}

// Has reports whether a credential exists without decrypting it
func (s *CredentialService) Has(ctx context.Context, userID, provider string) (bool, error) {
	count, err := s.collection().CountDocuments(ctx, bson.M{"userId": userID, "provider": provider})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes a user's credential for a provider
func (s *CredentialService) Delete(ctx context.Context, userID, provider string) error {
	result, err := s.collection().DeleteOne(ctx, bson.M{"userId": userID, "provider": provider})
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	if result.DeletedCount > 0 {
		log.Printf("🔐 [CREDENTIAL] Deleted %s credential for user %s", provider, userID)
	}
	return nil
}
