package fakeapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hrconsole/internal/domain/auth"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           auth.Role
	ApprovalStatus string
	RejectReason   string
}

func (u *User) public() Doc {
	return Doc{
		"id":             u.ID,
		"name":           u.Name,
		"email":          u.Email,
		"role":           Doc{"name": string(u.Role)},
		"approvalStatus": u.ApprovalStatus,
	}
}

// AddUser seeds an account and returns its id. An empty status means approved.
func (s *Server) AddUser(name, email, password string, role auth.Role, status string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	if status == "" {
		status = StatusApproved
	}
	u := &User{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          strings.ToLower(email),
		PasswordHash:   string(hash),
		Role:           role,
		ApprovalStatus: status,
	}
	s.mu.Lock()
	s.users[u.ID] = u
	s.mu.Unlock()
	return u.ID
}

func (s *Server) userByEmail(email string) *User {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	email, _ := body["email"].(string)
	password, _ := body["password"].(string)

	s.mu.Lock()
	u := s.userByEmail(email)
	legacy, omit := s.legacyToken, s.omitToken
	s.mu.Unlock()

	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		writeJSON(w, http.StatusUnauthorized, Doc{"message": "Invalid email or password"})
		return
	}
	if u.ApprovalStatus != StatusApproved {
		writeJSON(w, http.StatusForbidden, Doc{
			"message":        "Your account is awaiting administrator approval",
			"approvalStatus": u.ApprovalStatus,
		})
		return
	}
	token, err := s.IssueToken(u.ID, s.tokenTTL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Doc{"message": err.Error()})
		return
	}
	resp := Doc{"user": u.public()}
	switch {
	case omit:
	case legacy:
		resp["token"] = token
	default:
		resp["accessToken"] = token
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createUser(body Doc, role auth.Role, status string) (*User, int, string) {
	name, _ := body["name"].(string)
	email, _ := body["email"].(string)
	password, _ := body["password"].(string)
	if name == "" || email == "" || password == "" {
		return nil, http.StatusBadRequest, "Name, email and password are required"
	}
	s.mu.Lock()
	exists := s.userByEmail(email) != nil
	s.mu.Unlock()
	if exists {
		return nil, http.StatusBadRequest, "User already exists"
	}
	id := s.AddUser(name, email, password, role, status)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], http.StatusCreated, ""
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	_, status, msg := s.createUser(decode(r), auth.RoleEmployee, StatusPending)
	if msg != "" {
		writeJSON(w, status, Doc{"message": msg})
		return
	}
	writeJSON(w, status, Doc{"message": "Registration successful. Please wait for admin approval."})
}

// register approves immediately when an authenticated ADMIN or HR calls it.
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	roleName, _ := body["roleName"].(string)
	role := auth.NormalizeRole(roleName)
	if role == "" {
		role = auth.RoleEmployee
	}
	status := StatusPending
	if raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "); raw != "" {
		if claims, err := s.parseToken(raw); err == nil && auth.NormalizeRole(claims.Role).In(auth.Staff...) {
			status = StatusApproved
		}
	}
	u, code, msg := s.createUser(body, role, status)
	if msg != "" {
		writeJSON(w, code, Doc{"message": msg})
		return
	}
	writeJSON(w, code, Doc{"message": "User registered successfully", "user": u.public()})
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	oldPassword, _ := body["oldPassword"].(string)
	newPassword, _ := body["newPassword"].(string)

	s.mu.Lock()
	u := s.users[claimsFrom(r).UserID]
	s.mu.Unlock()
	if u == nil {
		writeJSON(w, http.StatusNotFound, Doc{"message": "User not found"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		writeJSON(w, http.StatusBadRequest, Doc{"message": "Current password is incorrect"})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.MinCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Doc{"message": err.Error()})
		return
	}
	s.mu.Lock()
	u.PasswordHash = string(hash)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, Doc{"message": "Password changed successfully"})
}

func (s *Server) pendingUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Doc{}
	for _, u := range s.users {
		if u.ApprovalStatus == StatusPending {
			doc := u.public()
			doc["_id"] = u.ID
			out = append(out, doc)
		}
	}
	sortDocs(out, "email")
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) approveUser(w http.ResponseWriter, r *http.Request) {
	s.setApproval(w, chi.URLParam(r, "id"), StatusApproved, "", "User approved successfully")
}

func (s *Server) rejectUser(w http.ResponseWriter, r *http.Request) {
	reason, _ := decode(r)["reason"].(string)
	s.setApproval(w, chi.URLParam(r, "id"), StatusRejected, reason, "User rejected")
}

func (s *Server) setApproval(w http.ResponseWriter, id, status, reason, message string) {
	s.mu.Lock()
	u, ok := s.users[id]
	if ok {
		u.ApprovalStatus = status
		u.RejectReason = reason
	}
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, Doc{"message": "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, Doc{"message": message})
}

// ApprovalOf exposes an account's approval state to tests.
func (s *Server) ApprovalOf(id string) (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u.ApprovalStatus, u.RejectReason
	}
	return "", ""
}
