/*
Package reputation implements Reputation contract which accounts prediction
outcomes of the participants.

Every recorded outcome increases the number of predictions of the user, the
number of correct ones (if the prediction was correct) and the total stake.
Reputation score is derived from these counters:

	accuracy = correctPredictions * 100 / predictionCount
	score    = accuracy + totalStake / 10_000_000

Score has no upper bound, stake keeps adding points.

# Contract notifications

OutcomeRecorded notification. This notification is produced on every recorded
outcome and carries reputation score of the user after the update.

	OutcomeRecorded:
	  - name: user
	    type: Hash160
	  - name: wasCorrect
	    type: Boolean
	  - name: stake
	    type: Integer
	  - name: reputationScore
	    type: Integer
*/
package reputation

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'r' + <user> -> std.Serialize(counters)
   prediction counters of the user (here counters is a structure defined in
   the current package); score is not stored and computed on every access

# Reputation
Records are created by the first RecordOutcome call for the user and are
never deleted.
*/
