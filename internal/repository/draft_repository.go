package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"snapquizzer_backend/internal/model"
	"snapquizzer_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

// DraftRepository keeps in-progress quiz drafts in Redis so an interrupted
// creation flow can be resumed. Each draft lives under its own key with a
// sliding TTL.
type DraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDraftRepository(client *redis.Client, ttl time.Duration) *DraftRepository {
	return &DraftRepository{client: client, ttl: ttl}
}

func draftKey(id string) string {
	return "draft:" + id
}

func (r *DraftRepository) Save(ctx context.Context, draft *model.QuizDraft) error {
	draft.UpdatedAt = time.Now()
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, draftKey(draft.ID), data, r.ttl).Err()
}

func (r *DraftRepository) Find(ctx context.Context, id string) (*model.QuizDraft, error) {
	data, err := r.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, util.ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}

	var draft model.QuizDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *DraftRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, draftKey(id)).Err()
}
