// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package tls manages server certificates: manual cert/key files,
// self-signed generation for development, and ACME issuance with automatic
// renewal. The Manager hands the HTTP server a *tls.Config whose certificate
// callback is backed by whichever provider the mode selects.
package tls

// Config selects and parameterizes the certificate provider.
type Config struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // letsencrypt, manual, self-signed

	LetsEncrypt *LetsEncryptConfig `mapstructure:"letsencrypt" yaml:"letsencrypt,omitempty"`
	Manual      *ManualConfig      `mapstructure:"manual" yaml:"manual,omitempty"`
	SelfSigned  *SelfSignedConfig  `mapstructure:"self_signed" yaml:"self_signed,omitempty"`
}

// ManualConfig points at operator-provided certificate files.
type ManualConfig struct {
	CertFile string `mapstructure:"cert_file" yaml:"cert_file"`
	KeyFile  string `mapstructure:"key_file" yaml:"key_file"`
}

// SelfSignedConfig parameterizes development certificate generation.
type SelfSignedConfig struct {
	Hostnames    []string `mapstructure:"hostnames" yaml:"hostnames"`
	IPAddresses  []string `mapstructure:"ip_addresses" yaml:"ip_addresses"`
	ValidityDays int32    `mapstructure:"validity_days" yaml:"validity_days"`
	Organization string   `mapstructure:"organization" yaml:"organization"`
}

// LetsEncryptConfig parameterizes ACME issuance over the HTTP-01 challenge.
type LetsEncryptConfig struct {
	Domains           []string `mapstructure:"domains" yaml:"domains"`
	Email             string   `mapstructure:"email" yaml:"email"`
	AcceptTOS         bool     `mapstructure:"accept_tos" yaml:"accept_tos"`
	ACMEDirectoryURL  string   `mapstructure:"acme_directory_url" yaml:"acme_directory_url"`
	HTTPChallengePort int32    `mapstructure:"http_challenge_port" yaml:"http_challenge_port"`
	CacheDir          string   `mapstructure:"cache_dir" yaml:"cache_dir"`
	AutoRenew         bool     `mapstructure:"auto_renew" yaml:"auto_renew"`
	RenewBeforeDays   int32    `mapstructure:"renew_before_days" yaml:"renew_before_days"`
}

// Status reports the active provider's certificate state.
type Status struct {
	Enabled     bool             `json:"enabled"`
	Mode        string           `json:"mode"`
	Certificate *CertificateInfo `json:"certificate,omitempty"`
	Renewal     *RenewalStatus   `json:"renewal,omitempty"`
}

// CertificateInfo describes the served certificate.
type CertificateInfo struct {
	Domains         []string `json:"domains"`
	Issuer          string   `json:"issuer"`
	ExpiresAt       int64    `json:"expires_at"`
	DaysUntilExpiry int32    `json:"days_until_expiry"`
	Valid           bool     `json:"valid"`
}

// RenewalStatus describes automatic renewal scheduling.
type RenewalStatus struct {
	Enabled       bool  `json:"enabled"`
	NextRenewalAt int64 `json:"next_renewal_at,omitempty"`
}
