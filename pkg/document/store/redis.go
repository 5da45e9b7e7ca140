package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/longplay45/swissgrid/pkg/document"
	"github.com/longplay45/swissgrid/pkg/errors"
)

// redisKeyPrefix namespaces document keys inside a shared redis instance.
const redisKeyPrefix = "swissgrid:doc:"

// Redis stores documents as JSON values in redis. A positive TTL lets
// documents expire; zero keeps them until deleted.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the redis instance named by the URL
// (redis://host:port/db, rediss:// for TLS).
func NewRedis(url string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse redis URL")
	}
	return &Redis{client: redis.NewClient(opt), ttl: ttl}, nil
}

func (s *Redis) Put(ctx context.Context, doc *document.Document) error {
	if err := checkDoc(doc); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document %s", doc.ID)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+doc.ID, data, s.ttl).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "write document %s", doc.ID)
	}
	return nil
}

func (s *Redis) Get(ctx context.Context, id string) (*document.Document, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "read document %s", id)
	}

	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode document %s", id)
	}
	return &doc, nil
}

func (s *Redis) List(ctx context.Context) ([]Info, error) {
	var infos []Info
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			// Expired between scan and read.
			continue
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "read %s", iter.Val())
		}
		var doc document.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			continue
		}
		infos = append(infos, infoOf(&doc))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "scan documents")
	}

	sortInfos(infos)
	return infos, nil
}

func (s *Redis) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "remove document %s", id)
	}
	if n == 0 {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
	}
	return nil
}

func (s *Redis) Close() error {
	return s.client.Close()
}

var _ Store = (*Redis)(nil)
