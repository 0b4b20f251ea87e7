package commands

import (
	"fmt"
	"log"

	"rollbook/backend/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "CREATE TYPE \"user_role\" AS ENUM",
		Query: `
        CREATE TYPE "user_role" AS ENUM ('ADMIN', 'TEACHER', 'SCANNER', 'DASHBOARD');`,
	},
	{
		Index:       2,
		Description: "Create table: users.",
		Query: `
        CREATE TABLE IF NOT EXISTS users (
            id serial primary key,
            login text not null,
            full_name text,
            password text not null,
            role user_role,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       3,
		Description: "Create account with login: Admin01, password: 1",
		Query: `
        INSERT INTO users(login, role, password)
        SELECT 'Admin01', 'ADMIN', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2'
        WHERE NOT EXISTS (SELECT login FROM users WHERE login = 'Admin01');
        `,
	},
	{
		Index:       4,
		Description: "Create account with login: Scanner01, password: 1",
		Query: `
        INSERT INTO users(login, role, password)
        SELECT 'Scanner01', 'SCANNER', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2'
        WHERE NOT EXISTS (SELECT login FROM users WHERE login = 'Scanner01');
        `,
	},
	{
		Index:       5,
		Description: "Create account with login: Dashboard01, password: 1",
		Query: `
        INSERT INTO users(login, role, password)
        SELECT 'Dashboard01', 'DASHBOARD', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2'
        WHERE NOT EXISTS (SELECT login FROM users WHERE login = 'Dashboard01');
        `,
	},
	{
		Index:       6,
		Description: "Create table: class_group.",
		Query: `
        CREATE TABLE IF NOT EXISTS class_group (
            id serial primary key,
            name text not null,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       7,
		Description: "Create table: students.",
		Query: `
        CREATE TABLE IF NOT EXISTS students (
            id serial primary key,
            student_code varchar(64) not null,
            first_name text,
            last_name text,
            class_group_id int references class_group(id),
            phone varchar(255),
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       8,
		Description: "Unique student_code for active students.",
		Query: `
        CREATE UNIQUE INDEX IF NOT EXISTS students_code_live
        ON students (student_code) WHERE deleted_at IS NULL;`,
	},
	{
		Index:       9,
		Description: "Create table: subjects.",
		Query: `
        CREATE TABLE IF NOT EXISTS subjects (
            id serial primary key,
            name text not null,
            class_group_id int references class_group(id),
            starts_at timestamp not null,
            ends_at timestamp,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       10,
		Description: "Create table: attendance_record.",
		Query: `
        CREATE TABLE IF NOT EXISTS attendance_record (
            id SERIAL PRIMARY KEY,
            student_id INT NOT NULL REFERENCES students(id),
            subject_id INT REFERENCES subjects(id),
            work_day DATE NOT NULL,
            come_time TIMESTAMP,
            leave_time TIMESTAMP,
            status VARCHAR(32) NOT NULL,
            lateness_minutes INT DEFAULT 0,
            work_minutes INT DEFAULT 0,
            note TEXT,
            created_at TIMESTAMP DEFAULT NOW(),
            created_by INT REFERENCES users(id),
            updated_at TIMESTAMP,
            updated_by INT REFERENCES users(id),
            deleted_at TIMESTAMP,
            deleted_by INT REFERENCES users(id)
        );`,
	},
	{
		Index:       11,
		Description: "At most one live record per student, day and session.",
		Query: `
        CREATE UNIQUE INDEX IF NOT EXISTS attendance_record_one_per_key
        ON attendance_record (student_id, work_day, COALESCE(subject_id, 0))
        WHERE deleted_at IS NULL;`,
	},
	{
		Index:       12,
		Description: "Create table: leave_request.",
		Query: `
        CREATE TABLE IF NOT EXISTS leave_request (
            id SERIAL PRIMARY KEY,
            student_id INT NOT NULL REFERENCES students(id),
            date_from DATE NOT NULL,
            date_to DATE NOT NULL,
            reason TEXT,
            status VARCHAR(32) NOT NULL DEFAULT 'pending',
            decided_at TIMESTAMP,
            decided_by INT REFERENCES users(id),
            created_at TIMESTAMP DEFAULT NOW(),
            created_by INT REFERENCES users(id),
            updated_at TIMESTAMP,
            updated_by INT REFERENCES users(id),
            deleted_at TIMESTAMP,
            deleted_by INT REFERENCES users(id)
        );`,
	},
	{
		Index:       13,
		Description: "Index leave_request lookups by student and range.",
		Query: `
        CREATE INDEX IF NOT EXISTS leave_request_student_range
        ON leave_request (student_id, date_from, date_to) WHERE deleted_at IS NULL;`,
	},
}

// Migrate creates the scheme in the database.
func Migrate(db *postgresql.Database) {
	for _, s := range scheme {
		if _, err := db.Query(s.Query); err != nil {
			log.Fatalln("migrate error", err)
		}
	}
}

func MigrateUP(db *postgresql.Database) {
	var (
		version int
		dirty   bool
		er      *string
	)
	err := db.QueryRow("SELECT version, dirty, error FROM schema_migrations").Scan(&version, &dirty, &er)
	if err != nil {
		if err.Error() == `ERROR: relation "schema_migrations" does not exist (SQLSTATE=42P01)` {
			if _, err = db.Exec(`
				CREATE TABLE IF NOT EXISTS schema_migrations (version int not null, dirty bool not null, error text);
				DELETE FROM schema_migrations;
				INSERT INTO schema_migrations (version, dirty) values (0, false);
			`); err != nil {
				log.Fatalln("migrate schema_migrations create error", err)
			}
			version = 0
			dirty = false
		} else {
			log.Fatalln("migrate schema_migrations scan: ", err)
		}
	}

	if dirty {
		for _, v := range scheme {
			if v.Index == version {
				if _, err = db.Exec(v.Query); err != nil {
					if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s'`, err.Error())); err != nil {
						log.Fatalln("migrate error", err)
					}
					log.Fatalln(fmt.Sprintf("migrate error version: %d", version), err)
				}
				if _, err = db.Exec(`UPDATE schema_migrations SET dirty = false, error = null`); err != nil {
					log.Fatalln("migrate error", err)
				}
			}
		}
	}

	for _, s := range scheme {
		if s.Index > version {
			if _, err = db.Exec(s.Query); err != nil {
				if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s', version = %d, dirty = true`, err.Error(), s.Index)); err != nil {
					log.Fatalln("migrate error", err)
				}
				log.Fatalln(fmt.Sprintf("migrate error version: %d", s.Index), err)
			}
			if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET version = %d`, s.Index)); err != nil {
				log.Fatalln("migrate error", err)
			}
		}
	}
}
