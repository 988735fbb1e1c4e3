package schema

import (
	"fmt"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

// Migrations turns extensions into one migration per change, numbered from
// start in declaration order.
func Migrations(exts []sdk.SchemaExtension, start int) ([]sdk.Migration, error) {
	if start < 1 {
		return nil, fmt.Errorf("migration versions start at 1, got %d", start)
	}

	statements, err := RenderAll(exts)
	if err != nil {
		return nil, err
	}

	migrations := make([]sdk.Migration, 0, len(statements))
	for i, stmt := range statements {
		migrations = append(migrations, sdk.Migration{Version: start + i, SQL: stmt})
	}
	return migrations, nil
}
