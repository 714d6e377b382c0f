package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"fcraft/world"
)

var (
	name = flag.String("name", "main", "Map name")
	out  = flag.String("o", "main.cw", "Output .cw file")
	size = flag.String("size", "128x128x64", "Map size as WIDTHxLENGTHxHEIGHT (height is vertical)")
)

func main() {
	flag.Parse()

	// Розбираємо розмір карти
	var dims world.Vector3I
	if _, err := fmt.Sscanf(*size, "%dx%dx%d", &dims.X, &dims.Y, &dims.Z); err != nil {
		fmt.Fprintln(os.Stderr, "bad -size:", err)
		os.Exit(2)
	}

	// Створюємо плоску карту
	m, err := world.NewMap(zap.NewNop(), *name, dims)
	if err != nil {
		panic(err)
	}
	world.GenerateFlatgrass(m)

	// Зберігаємо у форматі ClassicWorld
	if err := world.NewProvider(*out, "", nil).Save(m); err != nil {
		panic(err)
	}
	fmt.Printf("%s written: %s\n", *out, m)
}
