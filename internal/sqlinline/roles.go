package sqlinline

const QListUserRoles = `--sql 58e475e4-e0b0-446a-816e-1aaa6eba26db
select role
from user_roles
where user_id = $1::uuid
order by role;
`

const QGrantUserRole = `--sql e408eb8c-1a49-4204-8179-cf5e12399dda
insert into user_roles (user_id, role, created_at)
values ($1::uuid, $2::text, now())
on conflict (user_id, role) do nothing;
`

const QRevokeUserRole = `--sql e459c999-4554-44f9-ad0a-7754819ba851
delete from user_roles
where user_id = $1::uuid and role = $2::text;
`
