package service

import "study-tracker/internal/domain"

// Mock logger used by service package tests.
type MockLogger struct{}

func NewMockLogger() domain.Logger {
	return &MockLogger{}
}

func (l *MockLogger) Info(msg string, fields ...interface{})             {}
func (l *MockLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockLogger) Debug(msg string, fields ...interface{})            {}
func (l *MockLogger) Warn(msg string, fields ...interface{})             {}
