// ABOUTME: Versioned schema definitions: every version is a full table snapshot.
// ABOUTME: Later versions may add tables, columns and indexes but never drop or retype.
package storage

// Column describes one table column.
type Column struct {
	Name       string
	Type       string // TEXT, INTEGER or REAL
	NotNull    bool
	Default    string // SQL literal; empty means no default
	PrimaryKey bool
}

// Index describes a secondary index on a table.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// Table is the shape of one table at a given schema version.
type Table struct {
	Name    string
	Columns []Column
	Indexes []Index
}

// SchemaVersion is a complete snapshot of all tables at one version.
type SchemaVersion struct {
	Version     int
	Description string
	Tables      []Table
}

// Requirement declares that a repository reads or writes table (and the
// listed columns) as of schema version Since.
type Requirement struct {
	Table   string
	Columns []string
	Since   int
}

func (t Table) column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (t Table) index(name string) (Index, bool) {
	for _, ix := range t.Indexes {
		if ix.Name == name {
			return ix, true
		}
	}
	return Index{}, false
}

// extend returns a copy of t with extra columns and indexes appended.
func (t Table) extend(cols []Column, idx ...Index) Table {
	out := Table{Name: t.Name}
	out.Columns = append(append([]Column{}, t.Columns...), cols...)
	out.Indexes = append(append([]Index{}, t.Indexes...), idx...)
	return out
}

func (v SchemaVersion) table(name string) (Table, bool) {
	for _, t := range v.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

func pk() Column {
	return Column{Name: "id", Type: "INTEGER", PrimaryKey: true}
}

func text(name string) Column {
	return Column{Name: name, Type: "TEXT", NotNull: true}
}

func textDefault(name, def string) Column {
	return Column{Name: name, Type: "TEXT", NotNull: true, Default: def}
}

func nullableText(name string) Column {
	return Column{Name: name, Type: "TEXT"}
}

func integer(name, def string) Column {
	return Column{Name: name, Type: "INTEGER", NotNull: true, Default: def}
}

func float(name, def string) Column {
	return Column{Name: name, Type: "REAL", NotNull: true, Default: def}
}

var (
	journalEntriesV1 = Table{
		Name: "journal_entries",
		Columns: []Column{
			pk(),
			text("date"),
			integer("mood", ""),
			integer("energy", "50"),
			float("sleep_hours", "0"),
			integer("sleep_quality", "3"),
			textDefault("tags", "'[]'"),
			textDefault("note", "''"),
			text("created_at"),
			text("updated_at"),
		},
		Indexes: []Index{
			{Name: "idx_entries_date", Columns: []string{"date"}, Unique: true},
		},
	}

	settingsV1 = Table{
		Name: "settings",
		Columns: []Column{
			pk(),
			textDefault("language", "'en'"),
			textDefault("theme", "'system'"),
			textDefault("notifications", "'{}'"),
			text("updated_at"),
		},
	}

	homeworkV2 = Table{
		Name: "homework",
		Columns: []Column{
			pk(),
			text("subject"),
			textDefault("description", "''"),
			text("due_date"),
			textDefault("priority", "'medium'"),
			integer("completed", "0"),
			nullableText("completed_at"),
			text("created_at"),
			text("updated_at"),
		},
		Indexes: []Index{
			{Name: "idx_homework_due", Columns: []string{"due_date"}},
		},
	}

	scheduleV2 = Table{
		Name: "schedule",
		Columns: []Column{
			pk(),
			text("subject"),
			integer("day_of_week", ""),
			text("start_time"),
			text("end_time"),
			textDefault("room", "''"),
			textDefault("color", "''"),
			integer("recurring", "1"),
			text("created_at"),
			text("updated_at"),
		},
		Indexes: []Index{
			{Name: "idx_schedule_day", Columns: []string{"day_of_week", "start_time"}},
		},
	}

	tasksV3 = Table{
		Name: "tasks",
		Columns: []Column{
			pk(),
			text("title"),
			textDefault("notes", "''"),
			textDefault("list", "'inbox'"),
			nullableText("when_at"),
			nullableText("deadline"),
			textDefault("tags", "'[]'"),
			integer("completed", "0"),
			nullableText("completed_at"),
			text("created_at"),
			text("updated_at"),
		},
	}

	userStatsV3 = Table{
		Name: "user_stats",
		Columns: []Column{
			pk(),
			integer("total_entries", "0"),
			integer("current_streak", "0"),
			integer("longest_streak", "0"),
			nullableText("last_entry_date"),
			integer("total_tasks", "0"),
			integer("completed_tasks", "0"),
			text("updated_at"),
		},
	}

	settingsV4 = settingsV1.extend([]Column{
		integer("is_premium", "0"),
		nullableText("premium_expires_at"),
		textDefault("ai_usage", `'{"count":0,"resetDate":"","limit":10}'`),
	})

	aiMessagesV4 = Table{
		Name: "ai_messages",
		Columns: []Column{
			pk(),
			text("role"),
			text("content"),
			text("created_at"),
		},
	}

	tasksV5 = tasksV3.extend([]Column{
		textDefault("area", "''"),
		textDefault("project", "''"),
	},
		Index{Name: "idx_tasks_list", Columns: []string{"list"}},
		Index{Name: "idx_tasks_completed", Columns: []string{"completed"}},
	)
)

// Migrations is the ordered, additive schema history.
var Migrations = []SchemaVersion{
	{
		Version:     1,
		Description: "journal entries and settings",
		Tables:      []Table{journalEntriesV1, settingsV1},
	},
	{
		Version:     2,
		Description: "homework and schedule",
		Tables:      []Table{journalEntriesV1, settingsV1, homeworkV2, scheduleV2},
	},
	{
		Version:     3,
		Description: "tasks and user stats",
		Tables:      []Table{journalEntriesV1, settingsV1, homeworkV2, scheduleV2, tasksV3, userStatsV3},
	},
	{
		Version:     4,
		Description: "assistant log, premium and AI usage",
		Tables:      []Table{journalEntriesV1, settingsV4, homeworkV2, scheduleV2, tasksV3, userStatsV3, aiMessagesV4},
	},
	{
		Version:     5,
		Description: "task areas and projects",
		Tables:      []Table{journalEntriesV1, settingsV4, homeworkV2, scheduleV2, tasksV5, userStatsV3, aiMessagesV4},
	},
}

// Requirements lists the tables each repository depends on.
var Requirements = []Requirement{
	{Table: "journal_entries", Since: 1, Columns: []string{"id", "date", "mood", "energy", "sleep_hours", "sleep_quality", "tags", "note", "created_at", "updated_at"}},
	{Table: "settings", Since: 4, Columns: []string{"id", "language", "theme", "notifications", "is_premium", "premium_expires_at", "ai_usage", "updated_at"}},
	{Table: "homework", Since: 2, Columns: []string{"id", "subject", "description", "due_date", "priority", "completed", "completed_at", "created_at", "updated_at"}},
	{Table: "schedule", Since: 2, Columns: []string{"id", "subject", "day_of_week", "start_time", "end_time", "room", "color", "recurring", "created_at", "updated_at"}},
	{Table: "tasks", Since: 5, Columns: []string{"id", "title", "notes", "list", "area", "project", "when_at", "deadline", "tags", "completed", "completed_at", "created_at", "updated_at"}},
	{Table: "user_stats", Since: 3, Columns: []string{"id", "total_entries", "current_streak", "longest_streak", "last_entry_date", "total_tasks", "completed_tasks", "updated_at"}},
	{Table: "ai_messages", Since: 4, Columns: []string{"id", "role", "content", "created_at"}},
}
