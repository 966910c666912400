package auth

import "testing"

func TestDirectory_RegisterLoginRoundTrip(t *testing.T) {
	d := NewDirectory([]byte("test-secret"))
	if err := d.Register("borrower@example.com", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, err := d.Login("borrower@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	subject, err := d.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "borrower@example.com" {
		t.Errorf("expected subject borrower@example.com, got %s", subject)
	}
}

func TestDirectory_RegisterDuplicateEmailFails(t *testing.T) {
	d := NewDirectory([]byte("test-secret"))
	if err := d.Register("a@example.com", "pw12345"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := d.Register("a@example.com", "different"); err != ErrEmailTaken {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestDirectory_LoginWrongPasswordFails(t *testing.T) {
	d := NewDirectory([]byte("test-secret"))
	_ = d.Register("b@example.com", "correct-password")
	if _, err := d.Login("b@example.com", "wrong-password"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestDirectory_VerifyRejectsGarbageToken(t *testing.T) {
	d := NewDirectory([]byte("test-secret"))
	if _, err := d.Verify("not-a-real-token"); err == nil {
		t.Error("expected an error verifying a garbage token")
	}
}

func TestDirectory_VerifyRejectsTokenSignedWithDifferentSecret(t *testing.T) {
	d1 := NewDirectory([]byte("secret-one"))
	d2 := NewDirectory([]byte("secret-two"))
	_ = d1.Register("c@example.com", "password1")
	token, _ := d1.Login("c@example.com", "password1")
	if _, err := d2.Verify(token); err == nil {
		t.Error("expected verification to fail across different signing secrets")
	}
}
