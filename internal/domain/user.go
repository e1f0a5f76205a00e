package domain

// SubjectKind distinguishes the two disjoint identity tables. A user and an
// admin with the same email are independent records.
type SubjectKind string

const (
	SubjectUser  SubjectKind = "user"
	SubjectAdmin SubjectKind = "admin"
)

type User struct {
	ID             int64
	Email          string
	HashedPassword string
	FullName       *string
	IsActive       bool
}

type Admin struct {
	ID             int64
	Email          string
	HashedPassword string
	FullName       *string
	IsActive       bool
}
