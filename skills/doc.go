// Package skills keeps the normalized skill catalog and the proficiency each
// volunteer holds in a skill.
//
// The free-form skill set stored on a volunteer record is a tag list. The
// catalog here is the structured counterpart: skills are unique by
// case-insensitive name, carry an optional category, and are linked to
// volunteers through assignments rated from Beginner to Expert.
//
// Catalog is the entry point. It validates input, enforces uniqueness and
// maps store errors to the same rich error codes the volunteer package uses,
// so volunteer.IsNotFound and friends work on catalog errors too.
package skills
