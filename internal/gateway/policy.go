// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gateway

// Policy is a (match, check) pair with an informational id. Match must be
// side-effect-free; Check must be side-effect-free and returns whether
// the message is accepted plus the attribute bits it contributes.
type Policy struct {
	ID    int
	Match func(msg *Message) bool
	Check func(msg *Message, attribute uint32) (accept bool, bits uint32)
}

// PolicyChain is the ordered, append-only list of registered policies.
// Evaluation respects registration order.
type PolicyChain struct {
	policies []Policy
}

// Register appends a policy to the chain. It returns NO_RESOURCE once
// MaxPolicies have been registered.
func (c *PolicyChain) Register(p Policy) *Error {
	if len(c.policies) >= MaxPolicies {
		return New(NoResource, "policy chain is full")
	}
	c.policies = append(c.policies, p)
	return nil
}

// Len reports how many policies are registered.
func (c *PolicyChain) Len() int { return len(c.policies) }
