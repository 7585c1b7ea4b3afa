package ports

import (
	"context"
	"time"

	"scenegen/internal/core/domain"
	"scenegen/pkg/geometry"
)

// Simulator defines the port to the physics simulator's service interface.
// Implementations own their transport and call timeouts; callers treat every
// failure as skippable and keep the batch going.
type Simulator interface {
	// Spawn creates a model from a raw descriptor document at the given pose.
	Spawn(ctx context.Context, name, descriptor string, pose domain.Pose) error

	// GetPose returns the model's current position in the world frame.
	GetPose(ctx context.Context, name string) (domain.Point3, error)

	// ApplyForce pushes the named model along a unit direction vector with
	// the given magnitude for a fixed duration.
	ApplyForce(ctx context.Context, name string, direction domain.Point3, magnitude float64, duration time.Duration) error

	// Delete removes a model by name.
	Delete(ctx context.Context, name string) error
}

// MeshLoader defines the port for reading triangle meshes from disk.
type MeshLoader interface {
	// Load reads a mesh file into a triangle soup.
	Load(path string) (*geometry.Mesh, error)
}
