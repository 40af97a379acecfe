package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// manifest returns the target-conventional build manifest for p: its
// filename and content. Every target has exactly one manifest so that
// GenerateProject always satisfies the one-manifest-per-project contract.
func manifest(target lang.Language, p *uir.Project) (string, string) {
	name := projectSlug(p)
	switch target {
	case lang.Python:
		return "requirements.txt", requirementsTxt(p)
	case lang.JavaScript:
		return "package.json", packageJSON(name)
	case lang.TypeScript:
		return "tsconfig.json", tsconfigJSON()
	case lang.Ruby:
		return "Gemfile", gemfile(p)
	case lang.PHP:
		return "composer.json", composerJSON(name)
	case lang.Lua:
		return name + "-0.1-1.rockspec", rockspec(name, p)
	case lang.R:
		return "DESCRIPTION", rDescription(name)
	case lang.Java:
		return "pom.xml", pomXML(name)
	case lang.Go:
		return "go.mod", goMod(name)
	case lang.Rust:
		return "Cargo.toml", cargoToml(name)
	case lang.CSharp:
		return name + ".csproj", csproj()
	case lang.Kotlin:
		return "build.gradle.kts", buildGradleKts(name)
	case lang.Swift:
		return "Package.swift", packageSwift(exportCap(name))
	case lang.Scala:
		return "build.sbt", buildSbt(name)
	case lang.C:
		return "Makefile", makefile()
	case lang.SQL:
		return "schema.sql", schemaNote(p)
	case lang.Bash:
		return "run.sh", runSh(p)
	default:
		return "README", "# " + name + "\n"
	}
}

// projectSlug turns the project name into a build-system friendly
// identifier.
func projectSlug(p *uir.Project) string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "generated"
	}
	name = strings.ToLower(name)
	name = strings.NewReplacer(" ", "-", "_", "-", ".", "-").Replace(name)
	return name
}

// externalLibs collects every external library referenced by the project's
// functions, sorted for stable manifests.
func externalLibs(p *uir.Project) []string {
	seen := map[string]bool{}
	for _, m := range p.Modules {
		for _, fn := range m.Functions {
			for _, lib := range fn.ExternalLibs {
				seen[lib] = true
			}
		}
	}
	libs := make([]string, 0, len(seen))
	for lib := range seen {
		libs = append(libs, lib)
	}
	sort.Strings(libs)
	return libs
}

func requirementsTxt(p *uir.Project) string {
	libs := externalLibs(p)
	if len(libs) == 0 {
		return "# no external dependencies detected\n"
	}
	return strings.Join(libs, "\n") + "\n"
}

func packageJSON(name string) string {
	return fmt.Sprintf(`{
  "name": "%s",
  "version": "1.0.0",
  "main": "index.js",
  "scripts": {
    "start": "node index.js"
  },
  "license": "ISC"
}
`, name)
}

func tsconfigJSON() string {
	return `{
  "compilerOptions": {
    "target": "ES2020",
    "module": "commonjs",
    "strict": true,
    "esModuleInterop": true,
    "outDir": "dist"
  },
  "include": ["*.ts"]
}
`
}

func gemfile(p *uir.Project) string {
	lines := []string{`source "https://rubygems.org"`, "", `ruby ">= 3.0"`}
	for _, lib := range externalLibs(p) {
		lines = append(lines, fmt.Sprintf("gem %q", lib))
	}
	return strings.Join(lines, "\n") + "\n"
}

func composerJSON(name string) string {
	return fmt.Sprintf(`{
    "name": "generated/%s",
    "type": "project",
    "require": {
        "php": ">=8.1"
    }
}
`, name)
}

func rockspec(name string, p *uir.Project) string {
	modules := make([]string, 0, len(p.Modules))
	for _, m := range p.Modules {
		modules = append(modules, fmt.Sprintf("      %s = %q", m.Name, m.Name+".lua"))
	}
	return fmt.Sprintf(`package = %q
version = "0.1-1"
source = {
   url = "."
}
build = {
   type = "builtin",
   modules = {
%s
   }
}
`, name, strings.Join(modules, ",\n"))
}

func rDescription(name string) string {
	return fmt.Sprintf(`Package: %s
Title: Generated Package
Version: 0.1.0
Description: Generated from a universal intermediate representation.
License: MIT
Encoding: UTF-8
`, exportCap(name))
}

func pomXML(name string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0"
         xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
         xsi:schemaLocation="http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd">
    <modelVersion>4.0.0</modelVersion>

    <groupId>generated</groupId>
    <artifactId>%s</artifactId>
    <version>1.0-SNAPSHOT</version>
    <packaging>jar</packaging>

    <properties>
        <maven.compiler.source>17</maven.compiler.source>
        <maven.compiler.target>17</maven.compiler.target>
        <project.build.sourceEncoding>UTF-8</project.build.sourceEncoding>
    </properties>
</project>
`, name)
}

func goMod(name string) string {
	return fmt.Sprintf("module generated/%s\n\ngo 1.22\n", name)
}

func cargoToml(name string) string {
	return fmt.Sprintf(`[package]
name = %q
version = "0.1.0"
edition = "2021"

[dependencies]
`, strings.ReplaceAll(name, "-", "_"))
}

func csproj() string {
	return `<Project Sdk="Microsoft.NET.Sdk">

  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
    <Nullable>enable</Nullable>
  </PropertyGroup>

</Project>
`
}

func buildGradleKts(name string) string {
	return fmt.Sprintf(`plugins {
    kotlin("jvm") version "1.9.0"
}

group = "generated.%s"
version = "1.0-SNAPSHOT"

repositories {
    mavenCentral()
}

kotlin {
    jvmToolchain(17)
}
`, strings.ReplaceAll(name, "-", "."))
}

func packageSwift(name string) string {
	return fmt.Sprintf(`// swift-tools-version:5.9

import PackageDescription

let package = Package(
    name: %q,
    targets: [
        .target(name: %q)
    ]
)
`, name, name)
}

func buildSbt(name string) string {
	return fmt.Sprintf(`name := %q

version := "0.1.0"

scalaVersion := "2.13.12"
`, name)
}

func makefile() string {
	return `CC = gcc
CFLAGS = -Wall -Wextra -std=c11

SRCS = $(wildcard *.c)
OBJS = $(SRCS:.c=.o)
TARGET = program

all: $(TARGET)

$(TARGET): $(OBJS)
	$(CC) -o $@ $^

%.o: %.c
	$(CC) $(CFLAGS) -c -o $@ $<

clean:
	rm -f $(OBJS) $(TARGET)

.PHONY: all clean
`
}

func schemaNote(p *uir.Project) string {
	lines := []string{"-- schema entry point", "-- apply the module files in order:"}
	for _, m := range p.Modules {
		lines = append(lines, fmt.Sprintf(`\i %s.sql`, m.Name))
	}
	return strings.Join(lines, "\n") + "\n"
}

func runSh(p *uir.Project) string {
	lines := []string{"#!/bin/bash", "set -euo pipefail", ""}
	for _, m := range p.Modules {
		lines = append(lines, fmt.Sprintf("source ./%s.sh", m.Name))
	}
	return strings.Join(lines, "\n") + "\n"
}
