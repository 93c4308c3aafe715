package model

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleUser     Role = "USER"
)
