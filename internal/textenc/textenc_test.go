package textenc

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/text/encoding/traditionalchinese"
	xunicode "golang.org/x/text/encoding/unicode"
)

func TestNormalize_UTF8Passthrough(t *testing.T) {
	text, enc, err := Normalize([]byte("一、概述\n本文說明研究方法。"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enc != "utf-8" {
		t.Errorf("expected utf-8, got %q", enc)
	}
	if !strings.Contains(text, "概述") {
		t.Errorf("expected decoded text to survive, got %q", text)
	}
}

func TestNormalize_UTF8BOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("標題")...)
	text, enc, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enc != "utf-8" {
		t.Errorf("expected utf-8, got %q", enc)
	}
	if text != "標題" {
		t.Errorf("expected BOM stripped, got %q", text)
	}
}

func TestNormalize_Big5(t *testing.T) {
	src := "第一章 研究背景\n本章說明動機。"
	raw, err := traditionalchinese.Big5.NewEncoder().Bytes([]byte(src))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	text, enc, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enc != "big5" {
		t.Errorf("expected big5, got %q", enc)
	}
	if !strings.Contains(text, "研究背景") {
		t.Errorf("expected Big5 round-trip, got %q", text)
	}
}

func TestNormalize_UTF16WithBOM(t *testing.T) {
	src := "簡報標題"
	raw, err := xunicode.UTF16(xunicode.LittleEndian, xunicode.ExpectBOM).
		NewEncoder().Bytes([]byte(src))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	text, enc, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enc != "utf-16le" {
		t.Errorf("expected utf-16le, got %q", enc)
	}
	if text != src {
		t.Errorf("expected %q, got %q", src, text)
	}
}

func TestNormalize_Empty(t *testing.T) {
	text, enc, err := Normalize(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "" || enc != "utf-8" {
		t.Errorf("expected empty utf-8 result, got %q %q", text, enc)
	}
}

func TestNormalize_Undecodable(t *testing.T) {
	// 0xFF is an invalid lead byte in UTF-8, Big5 and GBK, and the odd
	// length breaks UTF-16, so every candidate is rejected.
	raw := bytes.Repeat([]byte{0xFF}, 63)
	_, _, err := Normalize(raw)
	if err == nil {
		t.Fatal("expected a decode error")
	}
	de, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if len(de.Tried) == 0 {
		t.Error("expected the error to list tried encodings")
	}
}

func TestNormalize_StripsControlCharacters(t *testing.T) {
	text, _, err := Normalize([]byte("abc\x00def\nghi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.ContainsRune(text, 0) {
		t.Errorf("expected NUL stripped, got %q", text)
	}
	if !strings.Contains(text, "\n") {
		t.Error("expected newline preserved")
	}
}
