// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package physics

import (
	"github.com/jcoffelt/basilisk/math/lin"
)

// calculate_external_force
// Calculate the sum of all external forces acting on an entity
func calculate_external_force(b *Body) lin.V3 {
	// center_of_mass := lin.NewV3() ... not used
	total_force := lin.NewV3()
	for i := 0; i < len(b.forces); i++ {
		total_force.Add(total_force, &b.forces[i].newtons)
	}
	return *total_force
}

// calculate_external_torque
// Calculate the sum of all external torques acting on an entity
func calculate_external_torque(b *Body) lin.V3 {
	center_of_mass := lin.NewV3()
	total_torque := lin.NewV3()
	distance := lin.NewV3()
	for i := 0; i < len(b.forces); i++ {
		distance.Sub(&b.forces[i].position, center_of_mass)
		total_torque.Add(total_torque, distance.Cross(distance, &b.forces[i].newtons))
	}
	return *total_torque
}

// get_dynamic_inertia_tensor
// Calculate the dynamic inertia tensor of an entity,
// i.e., the inertia tensor transformed considering entity's rotation
func get_dynamic_inertia_tensor(b *Body) lin.M3 {
	// Can only be used if the local->world matrix is orthogonal
	rotation_matrix := lin.NewM3().SetQ(&b.world_rotation)
	transposed_rotation_matrix := lin.NewM3().Transpose(rotation_matrix)
	aux := lin.NewM3().Mult(rotation_matrix, &b.inertia_tensor)
	aux.Mult(aux, transposed_rotation_matrix)
	return *aux
}

// RK4Step integrates one step of constant-acceleration motion using
// the fourth-order Runge-Kutta formula from physics_handler.py's
// get_constant_rk4: since acceleration is constant over the step, k2
// and k3 coincide, leaving effectively a Simpson's-rule blend of the
// start and end velocities. It returns the resulting delta position
// and delta velocity; the caller adds these to the current position
// and velocity. Selected by PhysicsConfig.UseRK4Springs as the
// alternate integrator for joint spring steps, in place of explicit
// Euler.
func RK4Step(dt float64, velocity, acceleration lin.V3) (deltaPos, deltaVel lin.V3) {
	k1 := velocity
	k2 := *lin.NewV3().Add(&velocity, lin.NewV3().Scale(&acceleration, 0.5*dt))
	k3 := k2
	k4 := *lin.NewV3().Add(&velocity, lin.NewV3().Scale(&acceleration, dt))

	sum := lin.NewV3().Add(&k1, lin.NewV3().Scale(&k2, 2))
	sum.Add(sum, lin.NewV3().Scale(&k3, 2))
	sum.Add(sum, &k4)

	deltaPos = *lin.NewV3().Scale(sum, dt/6.0)
	deltaVel = *lin.NewV3().Scale(&acceleration, dt)
	return deltaPos, deltaVel
}

// get_dynamic_inverse_inertia_tensor
// Calculate the dynamic inverse inertia tensor of an entity,
// i.e., the inverse inertia tensor transformed considering entity's rotation
func get_dynamic_inverse_inertia_tensor(b *Body) lin.M3 {
	// Can only be used if the local->world matrix is orthogonal
	rotation_matrix := lin.NewM3().SetQ(&b.world_rotation)
	transposed_rotation_matrix := lin.NewM3().Transpose(rotation_matrix)
	aux := lin.NewM3().Mult(rotation_matrix, &b.inverse_inertia_tensor)
	aux.Mult(aux, transposed_rotation_matrix)
	return *aux
}
