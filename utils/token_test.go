package utils

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(7, 3, "cashier")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if claims["role"] != "cashier" {
		t.Fatalf("expected role cashier, got %v", claims["role"])
	}
	if uint(claims["user_id"].(float64)) != 7 {
		t.Fatalf("expected user_id 7, got %v", claims["user_id"])
	}
	if uint(claims["store_id"].(float64)) != 3 {
		t.Fatalf("expected store_id 3, got %v", claims["store_id"])
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseToken("not-a-token"); err == nil {
		t.Fatal("expected parse error for garbage input")
	}
}
