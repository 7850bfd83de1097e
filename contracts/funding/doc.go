/*
Package funding implements Funding contract which keeps escrow accounting of
research projects.

Anyone can create a project with a funding goal and a duration in blocks.
Accounts fund the project until its expiration height; the contract tracks the
funding balance of the project and the cumulative contribution of every
funder. Once the balance reaches the goal, the creator may withdraw it, which
resets the balance to zero. Contributions are never reset and serve as an
audit trail of who funded how much.

The contract doesn't move any assets, it only keeps the books.

# Contract notifications

ProjectCreated notification. This notification is produced when a new
project is registered.

	ProjectCreated:
	  - name: projectID
	    type: Integer
	  - name: creator
	    type: Hash160
	  - name: fundingGoal
	    type: Integer
	  - name: expirationDate
	    type: Integer

ProjectFunded notification. This notification is produced on every accepted
funding.

	ProjectFunded:
	  - name: projectID
	    type: Integer
	  - name: funder
	    type: Hash160
	  - name: amount
	    type: Integer

FundsWithdrawn notification. This notification is produced when the creator
withdraws collected funds.

	FundsWithdrawn:
	  - name: projectID
	    type: Integer
	  - name: creator
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package funding

/*
Contract storage model.

Current conventions:
 <id>: std.Serialize of the integer project identifier
 <creator>, <funder>: 20-byte account script hash

# Summary
Key-value storage format:
 - 'n' -> int
   identifier of the next project to be created (number of created projects)
 - 'p' + <id> -> std.Serialize(Project)
   project record (here Project is a structure defined in current package)
 - 'f' + <id> + <funder> -> int
   total contribution of the funder to the project
 - 'o' + <creator> + <id> -> int
   project identifier, index of projects by creator

# Projects
Projects are never deleted. Only the CurrentFunding field of the project
changes after creation.
*/
