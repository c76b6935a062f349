package report_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Reportes-api/internal/application/report"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
	"github.com/jhoicas/Reportes-api/internal/domain/schema"
	"github.com/jhoicas/Reportes-api/internal/infrastructure/memory"
	"github.com/jhoicas/Reportes-api/pkg/logger"
	"github.com/jhoicas/Reportes-api/pkg/timeutil"
)

// fixture: admin A con u1 y u2, admin B con u3, admin C sin usuarios.
type fixture struct {
	store  *memory.Store
	cal    *timeutil.Calendar
	now    time.Time
	schema *schema.Schema
	scopes *report.ScopeResolver

	adminA, adminB, adminC entity.User
	u1, u2, u3             entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := schema.Lookup("v2")
	require.NoError(t, err)
	cal, err := timeutil.NewCalendar("Asia/Dhaka")
	require.NoError(t, err)

	f := &fixture{store: memory.NewStore(), schema: s}
	f.now = time.Date(2024, 5, 2, 10, 0, 0, 0, cal.Location())
	f.cal = cal.WithClock(func() time.Time { return f.now })
	f.scopes = report.NewScopeResolver(f.store.Users())

	f.adminA = f.addUser(t, "a", "Admin A", entity.RoleAdmin, nil)
	f.adminB = f.addUser(t, "b", "Admin B", entity.RoleAdmin, nil)
	f.adminC = f.addUser(t, "c", "Admin C", entity.RoleAdmin, nil)
	f.u1 = f.addUser(t, "u1", "Ana", entity.RoleUser, &f.adminA.ID)
	f.u2 = f.addUser(t, "u2", "Beto", entity.RoleUser, &f.adminA.ID)
	f.u3 = f.addUser(t, "u3", "Carla", entity.RoleUser, &f.adminB.ID)
	return f
}

func (f *fixture) addUser(t *testing.T, id, name string, role entity.Role, adminID *string) entity.User {
	t.Helper()
	u := entity.User{ID: id, Name: name, Email: id + "@test.com", Role: role, AdminID: adminID}
	require.NoError(t, f.store.Users().Create(context.Background(), &u))
	return u
}

func (f *fixture) submitter() *report.SubmitUseCase {
	return report.NewSubmitUseCase(f.store.Records(), f.schema, f.cal, nil, logger.Nop())
}

func (f *fixture) query() *report.QueryUseCase {
	return report.NewQueryUseCase(f.store.Records(), f.scopes, f.cal)
}

// seed inserta un reporte normalizado del usuario con fecha createdAt.
func (f *fixture) seed(t *testing.T, u entity.User, createdAt time.Time, overrides map[string]any) entity.Record {
	t.Helper()
	raw := validPayload(f.schema)
	for k, v := range overrides {
		raw[k] = v
	}
	vals, err := f.schema.Normalize(raw)
	require.NoError(t, err)
	rec := entity.Record{
		ID:            fmt.Sprintf("%s-%d", u.ID, createdAt.UnixNano()),
		UserID:        u.ID,
		SchemaVersion: f.schema.Version,
		Numbers:       vals.Numbers,
		Texts:         vals.Texts,
		CreatedAt:     createdAt,
		ReportDay:     f.cal.DayKey(createdAt),
	}
	require.NoError(t, f.store.Records().Create(context.Background(), &rec))
	return rec
}

// validPayload entradas v2 completas: numéricos en 0 y textos informados.
func validPayload(s *schema.Schema) map[string]any {
	raw := map[string]any{}
	for _, fd := range s.Fields {
		if s.IsDerived(fd.Name) {
			continue
		}
		if fd.Kind == schema.Text {
			raw[fd.Name] = "sin novedad"
		} else {
			raw[fd.Name] = 0
		}
	}
	return raw
}

func identity(u entity.User) entity.Identity { return entity.IdentityOf(&u) }
