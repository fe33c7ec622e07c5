// Package config assembles the application configuration.
//
// Values are resolved in this order, later sources winning:
//
//  1. `default` struct tags on every section, registered through reflection
//  2. the YAML inventory file (dog.yml), whose top-level keys match the
//     sections below
//  3. environment variables, including those loaded from a .env file
//
// Environment variables map to nested keys by replacing dots with
// underscores (INVENTORY_GROUP_SUFFIX -> inventory.group_suffix). The dog
// API endpoint and token also accept DOG_API_ENDPOINT and DOG_API_TOKEN.
//
// Rule lists (filters, compose, groups, keyed_groups) can only be set in the
// YAML file.
//
// # Example
//
//	dog:
//	  url: https://dog.example.com/api/V2
//	inventory:
//	  only_include_active: true
//	  unique_id_key: name
//	  group_suffix: _qa
//	  filters:
//	    - key: dog_os_distribution
//	      value: Ubuntu
//	  keyed_groups:
//	    - key: dog_ec2_region
//	      prefix: region
package config
