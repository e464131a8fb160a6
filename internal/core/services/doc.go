// Package services implements the core pipeline services behind the
// driving ports: ingestion, retrieval, citation validation and guarded
// literature search. Services depend only on domain types and driven
// ports, never on concrete adapters.
package services
