package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Role is a project membership role.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   pgtype.Timestamptz
}

type Project struct {
	ID        string
	Name      string
	OwnerID   string
	Width     int32
	Height    int32
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type ProjectMember struct {
	ProjectID string
	UserID    string
	Role      Role
}

// MemberWithUser joins a membership row with the user's profile fields.
type MemberWithUser struct {
	UserID      string
	Role        Role
	DisplayName string
	Email       string
}

type Snapshot struct {
	ID        string
	ProjectID string
	Version   int32
	Document  []byte
	CreatedAt pgtype.Timestamptz
}

// Queries wraps the connection pool with typed query methods.
type Queries struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

type CreateUserParams struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password, display_name, created_at`,
		arg.ID, arg.Email, arg.Password, arg.DisplayName)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE email = $1`, email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE id = $1`, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

type CreateProjectParams struct {
	ID      string
	Name    string
	OwnerID string
	Width   int32
	Height  int32
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := q.pool.QueryRow(ctx, `
		INSERT INTO projects (id, name, owner_id, width, height)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, owner_id, width, height, created_at, updated_at`,
		arg.ID, arg.Name, arg.OwnerID, arg.Width, arg.Height)
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.OwnerID, &p.Width, &p.Height, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (q *Queries) GetProject(ctx context.Context, id string) (Project, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT id, name, owner_id, width, height, created_at, updated_at
		FROM projects WHERE id = $1`, id)
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.OwnerID, &p.Width, &p.Height, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (q *Queries) RenameProject(ctx context.Context, id, name string) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE projects SET name = $2, updated_at = now() WHERE id = $1`, id, name)
	return err
}

func (q *Queries) ListProjectsForUser(ctx context.Context, userID string) ([]Project, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT p.id, p.name, p.owner_id, p.width, p.height, p.created_at, p.updated_at
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = $1
		ORDER BY p.updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.OwnerID, &p.Width, &p.Height, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (q *Queries) DeleteProject(ctx context.Context, id string) error {
	_, err := q.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

type AddProjectMemberParams struct {
	ProjectID string
	UserID    string
	Role      Role
}

func (q *Queries) AddProjectMember(ctx context.Context, arg AddProjectMemberParams) error {
	_, err := q.pool.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id) DO NOTHING`,
		arg.ProjectID, arg.UserID, arg.Role)
	return err
}

type GetProjectMemberParams struct {
	ProjectID string
	UserID    string
}

func (q *Queries) GetProjectMember(ctx context.Context, arg GetProjectMemberParams) (ProjectMember, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT project_id, user_id, role
		FROM project_members WHERE project_id = $1 AND user_id = $2`,
		arg.ProjectID, arg.UserID)
	var m ProjectMember
	err := row.Scan(&m.ProjectID, &m.UserID, &m.Role)
	return m, err
}

func (q *Queries) ListProjectMembers(ctx context.Context, projectID string) ([]MemberWithUser, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT m.user_id, m.role, u.display_name, u.email
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.role, u.display_name`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []MemberWithUser
	for rows.Next() {
		var m MemberWithUser
		if err := rows.Scan(&m.UserID, &m.Role, &m.DisplayName, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

type RemoveProjectMemberParams struct {
	ProjectID string
	UserID    string
}

func (q *Queries) RemoveProjectMember(ctx context.Context, arg RemoveProjectMemberParams) error {
	_, err := q.pool.Exec(ctx, `
		DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		arg.ProjectID, arg.UserID)
	return err
}

type CreateSnapshotParams struct {
	ID        string
	ProjectID string
	Version   int32
	Document  []byte
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (Snapshot, error) {
	row := q.pool.QueryRow(ctx, `
		INSERT INTO snapshots (id, project_id, version, document)
		VALUES ($1, $2, $3, $4)
		RETURNING id, project_id, version, document, created_at`,
		arg.ID, arg.ProjectID, arg.Version, arg.Document)
	var s Snapshot
	err := row.Scan(&s.ID, &s.ProjectID, &s.Version, &s.Document, &s.CreatedAt)
	return s, err
}

func (q *Queries) GetLatestSnapshot(ctx context.Context, projectID string) (Snapshot, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT id, project_id, version, document, created_at
		FROM snapshots WHERE project_id = $1
		ORDER BY version DESC LIMIT 1`, projectID)
	var s Snapshot
	err := row.Scan(&s.ID, &s.ProjectID, &s.Version, &s.Document, &s.CreatedAt)
	return s, err
}
