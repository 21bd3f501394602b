package repository

import "fmt"

// ensureTriggerSQL installs the notify trigger on the indexer's health factor
// table if it is not there yet. The channel name is injected by EnsureTrigger.
const ensureTriggerSQL = `
DO $$
BEGIN
  IF NOT EXISTS (
    SELECT 1
    FROM pg_trigger
    WHERE tgname = '_trigger_account_health_factor'
    AND tgrelid = 'indexing_data."accountHealthFactor"'::regclass
  ) THEN
    CREATE OR REPLACE FUNCTION indexing_data.notify_account_health_factor()
    RETURNS trigger
    LANGUAGE plpgsql
    AS $function$
    DECLARE
      payload json;
    BEGIN
      payload := row_to_json(NEW);
      PERFORM pg_notify('%s', payload::text);
      RETURN NEW;
    END;
    $function$;

    CREATE TRIGGER _trigger_account_health_factor
    AFTER INSERT
    ON "indexing_data"."accountHealthFactor"
    FOR EACH ROW
    EXECUTE PROCEDURE indexing_data.notify_account_health_factor();
  END IF;
END;
$$;
`

// EnsureTrigger makes sure new health factor rows are broadcast on the given
// notification channel. Idempotent, runs at startup.
func (p *PostgresDB) EnsureTrigger(channel string) error {
	if err := p.Conn.Exec(fmt.Sprintf(ensureTriggerSQL, channel)).Error; err != nil {
		return fmt.Errorf("failed to install notify trigger: %s", err)
	}
	return nil
}
