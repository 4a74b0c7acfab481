package audit

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSaveAuthenticateEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   Event
		wantSev Severity
		wantFac int
		wantID  string
	}{
		{
			name: "successful authentication",
			event: AuthenticateEvent{
				User:              "alice",
				ClientIP:          "192.168.1.1",
				AuthenticatorName: "authn",
				Success:           true,
			},
			wantSev: SeverityInfo,
			wantFac: FacilityAuthPriv,
			wantID:  "authn",
		},
		{
			name: "failed token authentication",
			event: AuthenticateEvent{
				User:              "svc",
				ClientIP:          "192.168.1.1",
				AuthenticatorName: "authn-jwt",
				FailureKind:       "token_invalid",
			},
			wantSev: SeverityWarning,
			wantFac: FacilityAuthPriv,
			wantID:  "authn",
		},
		{
			name:    "whoami",
			event:   WhoamiEvent{User: "alice", ClientIP: "10.0.0.1", Success: true},
			wantSev: SeverityInfo,
			wantFac: FacilityAuth,
			wantID:  "identity-check",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("failed to create sqlmock: %v", err)
			}
			defer db.Close()

			store := NewStoreWithDB(db)

			mock.ExpectExec(`INSERT INTO messages`).
				WithArgs(
					tt.wantFac,
					int(tt.wantSev),
					sqlmock.AnyArg(), // timestamp
					sqlmock.AnyArg(), // hostname
					AppName,
					sqlmock.AnyArg(), // procid
					tt.wantID,
					sqlmock.AnyArg(), // sdata (JSON)
					tt.event.Message(),
				).
				WillReturnResult(sqlmock.NewResult(1, 1))

			if err := store.Save(tt.event); err != nil {
				t.Errorf("Save() error = %v", err)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestStoreSaveError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO messages`).WillReturnError(errors.New("relation \"messages\" does not exist"))

	if err := NewStoreWithDB(db).Save(WhoamiEvent{User: "alice"}); err == nil {
		t.Error("Save() expected an error")
	}
}

func TestStoreNilDB(t *testing.T) {
	store := &Store{db: nil}

	err := store.Save(AuthenticateEvent{User: "alice", Success: true})
	if err != nil {
		t.Errorf("Save() with nil db should not error, got: %v", err)
	}
}

func TestStoreClose(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	store := NewStoreWithDB(db)

	mock.ExpectClose()

	err = store.Close()
	if err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreCloseNilDB(t *testing.T) {
	store := &Store{db: nil}

	err := store.Close()
	if err != nil {
		t.Errorf("Close() with nil db should not error, got: %v", err)
	}
}

func TestNewStoreWithoutURL(t *testing.T) {
	t.Setenv("AUDIT_DATABASE_URL", "")

	store, err := NewStore()
	if err != nil || store != nil {
		t.Errorf("NewStore() = %v, %v; want nil, nil", store, err)
	}
}
