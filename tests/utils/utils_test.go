package tests

import (
	"testing"

	"seminarhub/utils"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := utils.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("password stored in the clear")
	}
	if !utils.CheckPasswordHash("s3cret", hash) {
		t.Fatalf("correct password rejected")
	}
	if utils.CheckPasswordHash("wrong", hash) {
		t.Fatalf("wrong password accepted")
	}
}

func TestGenerateAndVerifyToken(t *testing.T) {
	token, err := utils.GenerateToken("a@b.com", 42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	uid, err := utils.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if uid != 42 {
		t.Fatalf("want userId 42, got %d", uid)
	}
}
