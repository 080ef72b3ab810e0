package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"faithkeeper/internal/app/client/localstore"
	"faithkeeper/internal/utils/actiontype"
)

var (
	// ErrEmptyActionType тип действия обязателен, он выбирает маршрут доставки
	ErrEmptyActionType = errors.New("action type is required")
	// ErrInvalidActionType тип не подходит под шаблон сервера, такое действие не будет доставлено никогда
	ErrInvalidActionType = errors.New("action type must match ^[a-z][a-z0-9_.-]{0,63}$")
)

// QueueAction ставит одноразовое действие в исходящую очередь.
// Действие удаляется после успешной доставки.
func (h *Helpers) QueueAction(ctx context.Context, actionType string, payload any) (localstore.PendingAction, error) {
	if actionType == "" {
		return localstore.PendingAction{}, ErrEmptyActionType
	}
	if !actiontype.Valid(actionType) {
		return localstore.PendingAction{}, fmt.Errorf("%w: %q", ErrInvalidActionType, actionType)
	}

	var raw json.RawMessage
	switch p := payload.(type) {
	case nil:
	case json.RawMessage:
		raw = p
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return localstore.PendingAction{}, fmt.Errorf("ошибка сериализации действия %s: %w", actionType, err)
		}
		raw = b
	}

	a := localstore.PendingAction{
		ID:         h.newID(),
		ActionType: actionType,
		Payload:    raw,
		CreatedAt:  h.now().UTC(),
	}
	if err := localstore.Add(ctx, h.store, a); err != nil {
		return a, fmt.Errorf("ошибка постановки действия %s в очередь: %w", actionType, err)
	}

	h.log.Debug("Действие поставлено в очередь", "id", a.ID, "action_type", actionType)
	return a, nil
}

// PendingActions недоставленные действия в порядке постановки
func (h *Helpers) PendingActions(ctx context.Context) ([]localstore.PendingAction, error) {
	return localstore.GetAll[localstore.PendingAction](ctx, h.store)
}

// RemovePendingAction удаляет действие из очереди
func (h *Helpers) RemovePendingAction(ctx context.Context, id string) error {
	if err := localstore.Delete[localstore.PendingAction](ctx, h.store, id); err != nil {
		return fmt.Errorf("ошибка удаления действия %s: %w", id, err)
	}
	return nil
}
