// Package deconstruct breaks a single task into milestones of small steps
// and attaches them under the task on the board.
package deconstruct
