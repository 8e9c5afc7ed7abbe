package access_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/access"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/models"
)

type fakeUserLookup struct {
	users map[string]*models.User
	err   error
}

func (f *fakeUserLookup) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	usr, ok := f.users[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return usr, nil
}

func TestGateUnlocked(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		lookup  *fakeUserLookup
		userID  string
		want    bool
		wantErr bool
	}{
		{
			name:   "paid user is unlocked",
			lookup: &fakeUserLookup{users: map[string]*models.User{"u1": {ID: "u1", HasPaid: true}}},
			userID: "u1",
			want:   true,
		},
		{
			name:   "unpaid user is locked",
			lookup: &fakeUserLookup{users: map[string]*models.User{"u1": {ID: "u1"}}},
			userID: "u1",
			want:   false,
		},
		{
			name:   "unknown user is locked without error",
			lookup: &fakeUserLookup{users: map[string]*models.User{}},
			userID: "ghost",
			want:   false,
		},
		{
			name:    "lookup failure surfaces",
			lookup:  &fakeUserLookup{err: errors.New("connection refused")},
			userID:  "u1",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := access.NewGate(tt.lookup).Unlocked(ctx, tt.userID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unlocked() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Unlocked() = %v, want %v", got, tt.want)
			}
		})
	}
}
