package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/idearoom-admin/internal/domain"
	"github.com/yungbote/idearoom-admin/internal/platform/dbctx"
)

// ChangeChannel is the NOTIFY channel the change triggers publish on.
const ChangeChannel = "table_changes"

// pg_notify payloads are capped just under 8000 bytes; larger rows are sent
// without the record and flagged so listeners refetch.
const notifyFunction = `
CREATE OR REPLACE FUNCTION idearoom_notify_change() RETURNS trigger AS $$
DECLARE
	payload jsonb;
	row_id bigint;
BEGIN
	IF (TG_OP = 'DELETE') THEN
		row_id := OLD.id;
	ELSE
		row_id := NEW.id;
	END IF;
	payload := jsonb_build_object(
		'table', TG_TABLE_NAME,
		'type', TG_OP,
		'id', row_id,
		'actor', coalesce(current_setting('idearoom.actor', true), ''),
		'at', now()
	);
	IF (TG_OP <> 'DELETE') THEN
		payload := payload || jsonb_build_object('new', to_jsonb(NEW));
		IF octet_length(payload::text) > 7900 THEN
			payload := (payload - 'new') || jsonb_build_object('truncated', true);
		END IF;
	END IF;
	PERFORM pg_notify('` + ChangeChannel + `', payload::text);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;
`

func EnsureChangeTriggers(db *gorm.DB) error {
	if err := db.Exec(notifyFunction).Error; err != nil {
		return fmt.Errorf("create idearoom_notify_change: %w", err)
	}
	for _, table := range domain.Tables() {
		name := table + "_changes"
		if err := db.Exec(fmt.Sprintf(`DROP TRIGGER IF EXISTS %s ON %s;`, name, table)).Error; err != nil {
			return fmt.Errorf("drop trigger %s: %w", name, err)
		}
		if err := db.Exec(fmt.Sprintf(
			`CREATE TRIGGER %s AFTER INSERT OR UPDATE OR DELETE ON %s FOR EACH ROW EXECUTE FUNCTION idearoom_notify_change();`,
			name, table,
		)).Error; err != nil {
			return fmt.Errorf("create trigger %s: %w", name, err)
		}
	}
	return nil
}

// WithActor runs fn in a transaction. On postgres the writing session is
// recorded in a transaction-local setting that the change trigger reads.
func WithActor(dbc dbctx.Context, base *gorm.DB, actor string, fn func(dbc dbctx.Context) error) error {
	return dbc.DB(base).Transaction(func(tx *gorm.DB) error {
		if actor != "" && tx.Dialector.Name() == DriverPostgres {
			if err := tx.Exec(`SELECT set_config('idearoom.actor', ?, true)`, actor).Error; err != nil {
				return fmt.Errorf("set actor: %w", err)
			}
		}
		return fn(dbctx.Context{Ctx: dbc.Ctx, Tx: tx})
	})
}
