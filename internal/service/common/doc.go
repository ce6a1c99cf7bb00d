// Package common holds small helpers shared by the services, such as
// detecting the current system actor for audit records.
package common
